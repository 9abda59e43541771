package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/report"
)

var errStudentRequired = errors.New("student ID is required")

// StatsCmd returns the stats command.
func StatsCmd(engine *report.Engine) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stats", flag.ContinueOnError),
		Usage: "stats <student>",
		Short: "Show a student's attendance percentage",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) != 1 {
				return errStudentRequired
			}

			rep, err := engine.Student(ctx, args[0])
			if err != nil {
				return err
			}

			printStudent(io, rep)

			return nil
		},
	}
}
