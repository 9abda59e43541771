package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/attendance/internal/record"
	"github.com/calvinalkan/attendance/internal/report"
)

var errMarkArgs = errors.New("mark requires <student> <date> <0|1>")

// MarkCmd returns the mark command.
func MarkCmd(engine *report.Engine) *Command {
	return &Command{
		Flags: flag.NewFlagSet("mark", flag.ContinueOnError),
		Usage: "mark <student> <date> <0|1>",
		Short: "Record attendance (1=present, 0=absent)",
		Long: "Append one attendance record to the store.\n\n" +
			"The date is stored as given (YYYY-MM-DD recommended). Student and date\n" +
			"must not contain whitespace. Status must be 1 (present) or 0 (absent).",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execMark(ctx, io, engine, args)
		},
	}
}

func execMark(ctx context.Context, io *IO, engine *report.Engine, args []string) error {
	if len(args) != 3 {
		return errMarkArgs
	}

	status, err := record.ParseStatus(args[2])
	if err != nil {
		return err
	}

	rec, err := engine.Mark(ctx, args[0], args[1], status)
	if err != nil {
		return err
	}

	io.Println("Attendance saved:", record.Encode(rec))

	return nil
}
