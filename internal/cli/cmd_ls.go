package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/report"
)

// LsCmd returns the ls command.
func LsCmd(engine *report.Engine) *Command {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	student := flags.StringP("student", "s", "", "Only records of this student")
	date := flags.StringP("date", "d", "", "Only records on this date")

	return &Command{
		Flags: flags,
		Usage: "ls [flags]",
		Short: "List stored records",
		Long:  "List stored records in the order they were recorded.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			rep, err := engine.List(ctx, report.Filter{StudentID: *student, Date: *date})
			if err != nil {
				return err
			}

			warnSkipped(io, rep.Skipped)

			for _, rec := range rep.Records {
				printRecord(io, rec)
			}

			return nil
		},
	}
}
