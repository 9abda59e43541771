package cli

import (
	"context"
	"fmt"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/config"
	"github.com/calvinalkan/attendance/internal/fs"
)

const configFilePerm = 0o644

// InitCmd returns the init command.
func InitCmd(fsys fs.FS, cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Write a default " + config.ConfigFileName,
		Long:  "Write a commented " + config.ConfigFileName + " with default values. Never overwrites.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			path := filepath.Join(cfg.EffectiveCwd, config.ConfigFileName)

			exists, err := fsys.Exists(path)
			if err != nil {
				return err
			}

			if exists {
				return fmt.Errorf("%w: %s", config.ErrConfigFileExists, path)
			}

			if err := fsys.WriteFileAtomic(path, []byte(config.Template()), configFilePerm); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			io.Println("Wrote", path)

			return nil
		},
	}
}
