package cli

import (
	"context"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/config"
	"github.com/calvinalkan/attendance/internal/fs"
	"github.com/calvinalkan/attendance/internal/logging"
	"github.com/calvinalkan/attendance/internal/report"
	"github.com/calvinalkan/attendance/internal/store"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal on it cancels the command's context.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	globals := flag.NewFlagSet("attn", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	help := globals.BoolP("help", "h", false, "Show help")
	cwd := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	storePath := globals.String("store", "", "Override store `path`")
	threshold := globals.Float64("threshold", config.DefaultThreshold, "Override defaulter threshold in `percent`")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		o.ErrPrintln("error:", err)
		printGlobalOptions(o, globals)

		return 1
	}

	input := config.LoadInput{
		WorkDirOverride: *cwd,
		ConfigPath:      *configPath,
		Env:             env,
	}

	if globals.Changed("store") {
		input.StoreOverride = storePath
	}

	if globals.Changed("threshold") {
		input.ThresholdOverride = threshold
	}

	cfg, err := config.Load(input)
	if err != nil {
		o.ErrPrintln("error:", err)
		printGlobalOptions(o, globals)

		return 1
	}

	log, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	fsys := fs.NewReal()

	st, err := store.Open(cfg.StorePathAbs, store.Options{FS: fsys, Logger: log})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	engine := report.New(st, report.Options{FS: fsys, Logger: log})

	commands := []*Command{
		MarkCmd(engine),
		StatsCmd(engine),
		DefaulterCmd(engine, &cfg),
		DefaultersCmd(engine, &cfg),
		AnalyticsCmd(engine),
		LsCmd(engine),
		ExportCmd(engine, &cfg),
		MenuCmd(engine, &cfg, in),
		InitCmd(fsys, &cfg),
		PrintConfigCmd(&cfg),
	}

	rest := globals.Args()
	if *help || len(rest) == 0 {
		printUsage(o, globals, commands)

		return 0
	}

	name := rest[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		o.ErrPrintln("error: unknown command:", name)
		printUsageTo(o.ErrPrintln, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	code := cmd.Run(ctx, o, rest[1:])

	o.Finish()

	return code
}

func printUsage(o *IO, globals *flag.FlagSet, commands []*Command) {
	printUsageTo(o.Println, globals, commands)
}

func printUsageTo(printLine func(a ...any), globals *flag.FlagSet, commands []*Command) {
	printLine("attn - attendance tracker")
	printLine()
	printLine("Usage: attn [flags] <command> [args]")
	printLine()
	printLine("Commands:")

	for _, c := range commands {
		printLine(c.HelpLine())
	}

	printLine()
	printLine("Global flags:")
	printLine(strings.TrimRight(globals.FlagUsages(), "\n"))
}

func printGlobalOptions(o *IO, globals *flag.FlagSet) {
	o.ErrPrintln()
	o.ErrPrintln("Global flags:")
	o.ErrPrintln(strings.TrimRight(globals.FlagUsages(), "\n"))
}
