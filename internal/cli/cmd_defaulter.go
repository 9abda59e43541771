package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/config"
	"github.com/calvinalkan/attendance/internal/report"
)

// DefaulterCmd returns the defaulter command.
func DefaulterCmd(engine *report.Engine, cfg *config.Config) *Command {
	flags := flag.NewFlagSet("defaulter", flag.ContinueOnError)
	threshold := flags.Float64P("threshold", "t", 0, "Threshold in percent [default: configured threshold]")

	return &Command{
		Flags: flags,
		Usage: "defaulter <student> [flags]",
		Short: "Check one student against the threshold",
		Long:  "Report whether a student's attendance percentage is strictly below the threshold.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) != 1 {
				return errStudentRequired
			}

			rep, err := engine.Defaulter(ctx, args[0], effectiveThreshold(flags, *threshold, cfg))
			if err != nil {
				return err
			}

			printDefaulter(io, rep)

			return nil
		},
	}
}

// DefaultersCmd returns the defaulters command.
func DefaultersCmd(engine *report.Engine, cfg *config.Config) *Command {
	flags := flag.NewFlagSet("defaulters", flag.ContinueOnError)
	threshold := flags.Float64P("threshold", "t", 0, "Threshold in percent [default: configured threshold]")

	return &Command{
		Flags: flags,
		Usage: "defaulters [flags]",
		Short: "List every student below the threshold",
		Long:  "Check every student in the store, in order of first appearance, against the threshold.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			rep, err := engine.Defaulters(ctx, effectiveThreshold(flags, *threshold, cfg))
			if err != nil {
				return err
			}

			printDefaulters(io, rep)

			return nil
		},
	}
}

func effectiveThreshold(flags *flag.FlagSet, value float64, cfg *config.Config) float64 {
	if flags.Changed("threshold") {
		return value
	}

	return cfg.Threshold
}
