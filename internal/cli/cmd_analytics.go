package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/report"
)

// AnalyticsCmd returns the analytics command.
func AnalyticsCmd(engine *report.Engine) *Command {
	flags := flag.NewFlagSet("analytics", flag.ContinueOnError)
	byDate := flags.Bool("by-date", false, "Break density down per date")

	return &Command{
		Flags: flags,
		Usage: "analytics [flags]",
		Short: "Show class-wide attendance density",
		Long:  "Count all records and presences and show the overall presence density.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			rep, err := engine.Density(ctx, *byDate)
			if err != nil {
				return err
			}

			printDensity(io, rep)

			return nil
		},
	}
}
