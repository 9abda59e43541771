package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/calvinalkan/attendance/internal/config"
	"github.com/calvinalkan/attendance/internal/record"
	"github.com/calvinalkan/attendance/internal/report"
)

// prompter reads one line of user input per call.
// Implementations return io.EOF when the user is done (Ctrl-D/Ctrl-C).
type prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// MenuCmd returns the interactive menu command.
func MenuCmd(engine *report.Engine, cfg *config.Config, in io.Reader) *Command {
	return &Command{
		Flags: flag.NewFlagSet("menu", flag.ContinueOnError),
		Usage: "menu",
		Short: "Interactive menu",
		Long: "Run the interactive attendance menu: mark attendance, view a student's\n" +
			"percentage, check defaulters and show class analytics.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			p := newPrompter(in, o)
			defer func() { _ = p.Close() }()

			return runMenu(ctx, o, engine, cfg, p)
		},
	}
}

// newPrompter uses liner for a terminal on stdin and plain line reads
// otherwise (pipes, tests).
func newPrompter(in io.Reader, o *IO) prompter {
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(f.Fd())) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)

		return &linerPrompter{state: state}
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &linePrompter{r: bufio.NewReader(in), o: o}
}

func runMenu(ctx context.Context, o *IO, engine *report.Engine, cfg *config.Config, p prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.Println()
		o.Println("--- Attendance Analytics System ---")
		o.Println("1. Mark Attendance (Save to File)")
		o.Println("2. View Student Percentage")
		o.Printf("3. Identify Defaulters (<%s%%)\n", formatPercent(cfg.Threshold))
		o.Println("4. Class Analytics (Lecture-wise)")
		o.Println("5. Exit")

		choice, err := p.Prompt("Enter choice: ")
		if err != nil {
			return menuExit(o, err)
		}

		var actionErr error

		switch choice {
		case "1":
			actionErr = menuMark(ctx, o, engine, p)
		case "2":
			actionErr = menuStudent(ctx, o, engine, p)
		case "3":
			actionErr = menuDefaulter(ctx, o, engine, cfg, p)
		case "4":
			var rep report.DensityReport

			rep, actionErr = engine.Density(ctx, true)
			if actionErr == nil {
				printDensity(o, rep)
			}
		case "5":
			o.Println("Exiting system...")

			return nil
		default:
			o.Println("Invalid choice.")
		}

		o.Finish()

		switch {
		case actionErr == nil:
		case errors.Is(actionErr, io.EOF):
			return menuExit(o, actionErr)
		case errors.Is(actionErr, context.Canceled):
			return actionErr
		default:
			o.ErrPrintln("error:", actionErr)
		}
	}
}

func menuExit(o *IO, err error) error {
	if errors.Is(err, io.EOF) {
		o.Println()
		o.Println("Exiting system...")

		return nil
	}

	return fmt.Errorf("reading input: %w", err)
}

func menuMark(ctx context.Context, o *IO, engine *report.Engine, p prompter) error {
	date, err := p.Prompt("Enter Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	student, err := p.Prompt("Enter Student ID: ")
	if err != nil {
		return err
	}

	answer, err := p.Prompt("Is student present? (1 for Yes, 0 for No): ")
	if err != nil {
		return err
	}

	status, err := record.ParseStatus(answer)
	if err != nil {
		return err
	}

	if _, err := engine.Mark(ctx, student, date, status); err != nil {
		return err
	}

	o.Println("Attendance saved successfully.")

	return nil
}

func menuStudent(ctx context.Context, o *IO, engine *report.Engine, p prompter) error {
	student, err := p.Prompt("Enter Student ID to search: ")
	if err != nil {
		return err
	}

	rep, err := engine.Student(ctx, student)
	if err != nil {
		return err
	}

	printStudent(o, rep)

	return nil
}

var errThresholdNotNumber = errors.New("threshold must be a number")

func menuDefaulter(ctx context.Context, o *IO, engine *report.Engine, cfg *config.Config, p prompter) error {
	label := fmt.Sprintf("Enter Attendance Threshold (e.g., 75.0) [%s]: ", formatPercent(cfg.Threshold))

	answer, err := p.Prompt(label)
	if err != nil {
		return err
	}

	threshold := cfg.Threshold

	if answer != "" {
		threshold, err = strconv.ParseFloat(answer, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", errThresholdNotNumber, answer)
		}
	}

	student, err := p.Prompt("Enter ID to check eligibility: ")
	if err != nil {
		return err
	}

	rep, err := engine.Defaulter(ctx, student, threshold)
	if err != nil {
		return err
	}

	printDefaulter(o, rep)

	return nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// linePrompter prints the label to stdout and reads a line from r.
type linePrompter struct {
	r *bufio.Reader
	o *IO
}

func (p *linePrompter) Prompt(label string) (string, error) {
	p.o.Printf("%s", label)

	line, err := p.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func (p *linePrompter) Close() error { return nil }

// linerPrompter provides line editing and in-session history on a terminal.
type linerPrompter struct {
	state *liner.State
}

func (p *linerPrompter) Prompt(label string) (string, error) {
	line, err := p.state.Prompt(label)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}

		return "", err
	}

	line = strings.TrimSpace(line)
	if line != "" {
		p.state.AppendHistory(line)
	}

	return line, nil
}

func (p *linerPrompter) Close() error {
	return p.state.Close()
}
