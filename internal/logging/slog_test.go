package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	log, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return log, &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	t.Parallel()

	log, buf := newTestLogger(t)
	ctx := t.Context()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}

		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}

		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	t.Parallel()

	log, buf := newTestLogger(t)

	log.With("store", "db.txt").Info(t.Context(), "loaded", "records", 3)

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=loaded", "store=db.txt", "records=3"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNew_DefaultLevel_FiltersInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log, err := New(&buf, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info(t.Context(), "hidden")
	log.Warn(t.Context(), "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered at default level:\n%s", buf.String())
	}

	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn line missing:\n%s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"":      slog.LevelWarn,
		"error": slog.LevelError,
	}

	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseLevel("loud"); !errors.Is(err, ErrLogLevel) {
		t.Errorf("ParseLevel(loud) err=%v, want ErrLogLevel", err)
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	t.Parallel()

	log := Nop()
	log.Error(t.Context(), "ignored", "k", "v")
	log.With("a", 1).Debug(t.Context(), "ignored")
}
