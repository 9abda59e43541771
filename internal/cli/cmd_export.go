package cli

import (
	"context"
	"errors"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/config"
	"github.com/calvinalkan/attendance/internal/report"
)

var errExportPath = errors.New("export requires an output <file>")

// ExportCmd returns the export command.
func ExportCmd(engine *report.Engine, cfg *config.Config) *Command {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	threshold := flags.Float64P("threshold", "t", 0, "Threshold in percent [default: configured threshold]")

	return &Command{
		Flags: flags,
		Usage: "export <file> [flags]",
		Short: "Write a JSON snapshot of records and reports",
		Long: "Write every record, per-student stats, defaulters and density as JSON.\n" +
			"The file is replaced atomically.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) != 1 || args[0] == "" {
				return errExportPath
			}

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.EffectiveCwd, path)
			}

			snap, err := engine.Export(ctx, path, effectiveThreshold(flags, *threshold, cfg))
			if err != nil {
				return err
			}

			if snap.SkippedLines > 0 {
				io.Warn("%d malformed line(s) skipped", snap.SkippedLines)
			}

			io.Printf("Exported %d record(s) to %s\n", len(snap.Records), path)

			return nil
		},
	}
}
