// Package store persists attendance records in an append-only text file.
//
// One record per line, encoded by package record. The file is only ever
// appended to; records are never updated or deleted. Loading reads the
// whole file in one pass.
//
// Appends are serialized with an advisory flock on a sidecar "<path>.lock"
// file. Loads take no lock. Concurrent multi-process use is not supported
// beyond that: a reader racing a writer may see a partially written tail
// line, which is then skipped like any malformed line.
package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/attendance/internal/fs"
	"github.com/calvinalkan/attendance/internal/logging"
	"github.com/calvinalkan/attendance/internal/record"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	// DefaultLockTimeout bounds how long Append waits for another appender.
	DefaultLockTimeout = 2 * time.Second

	// ctxCheckInterval is how many lines LoadAll reads between context checks.
	ctxCheckInterval = 1024
)

// Options configures a Store. The zero value uses the real filesystem,
// a discarding logger and [DefaultLockTimeout].
type Options struct {
	FS          fs.FS
	Logger      logging.Logger
	LockTimeout time.Duration
}

// Store is the append-only record file.
type Store struct {
	path        string
	fs          fs.FS
	locker      *fs.Locker
	log         logging.Logger
	lockTimeout time.Duration
}

// SkippedLine describes a line LoadAll could not decode.
type SkippedLine struct {
	Line int    // 1-based line number
	Text string // raw line without terminator
	Err  error
}

// LoadResult is the outcome of [Store.LoadAll].
type LoadResult struct {
	// Records holds every decoded record in file order. Never nil.
	Records []record.Record

	// Skipped lists malformed lines, in file order.
	Skipped []SkippedLine
}

// Open returns a Store for the file at path. It does not touch the
// filesystem: a missing file is a valid empty store.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: %w", ErrPathEmpty)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	var log logging.Logger = logging.Nop()
	if opts.Logger != nil {
		log = opts.Logger
	}

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	path = filepath.Clean(path)

	return &Store{
		path:        path,
		fs:          fsys,
		locker:      fs.NewLocker(fsys),
		log:         log.With("store", path),
		lockTimeout: timeout,
	}, nil
}

// Path returns the cleaned path of the store file.
func (s *Store) Path() string {
	return s.path
}

// Append writes rec as one line at the end of the file and syncs it before
// returning. The file and its parent directory are created if missing.
//
// If the file does not end in a newline (for example after a hand edit),
// one is written first so the previous line stays intact.
//
// Records with an empty or whitespace-containing field, or a status
// outside {0, 1}, are rejected without touching the file.
func (s *Store) Append(ctx context.Context, rec record.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("append: %w", err)
	}

	validated, err := record.New(rec.StudentID, rec.Date, rec.Status)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return s.unavailable("create directory", err)
	}

	lock, err := s.locker.LockWithTimeout(s.path+".lock", s.lockTimeout)
	if err != nil {
		return s.unavailable("lock", err)
	}

	defer func() { _ = lock.Close() }()

	f, err := s.fs.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return s.unavailable("open for append", err)
	}

	line := record.Encode(validated) + "\n"

	missing, err := missingTrailingNewline(f)
	if err != nil {
		_ = f.Close()

		return s.unavailable("inspect tail", err)
	}

	if missing {
		line = "\n" + line
	}

	if _, err := io.WriteString(f, line); err != nil {
		_ = f.Close()

		return s.unavailable("write", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()

		return s.unavailable("sync", err)
	}

	if err := f.Close(); err != nil {
		return s.unavailable("close", err)
	}

	s.log.Debug(ctx, "appended record", "student", validated.StudentID, "date", validated.Date, "status", int(validated.Status))

	return nil
}

// LoadAll reads every line of the store in order.
//
// Lines that fail to decode are skipped and reported in
// [LoadResult.Skipped]; loading continues with the next line. Blank lines
// are ignored silently. A missing store file yields an empty result and no
// error.
func (s *Store) LoadAll(ctx context.Context) (LoadResult, error) {
	result := LoadResult{Records: []record.Record{}}

	if err := ctx.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("load: %w", err)
	}

	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug(ctx, "store file missing, nothing to load")

			return result, nil
		}

		return LoadResult{}, s.unavailable("open for read", err)
	}

	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	lineNo := 0

	for {
		text, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return LoadResult{}, s.unavailable("read", readErr)
		}

		if text == "" && readErr != nil {
			break
		}

		lineNo++

		if lineNo%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return LoadResult{}, fmt.Errorf("load: %w", err)
			}
		}

		text = strings.TrimRight(text, "\r\n")

		if strings.TrimSpace(text) != "" {
			rec, decodeErr := record.Decode(text)
			if decodeErr != nil {
				s.log.Warn(ctx, "skipping malformed line", "line", lineNo, "err", decodeErr)
				result.Skipped = append(result.Skipped, SkippedLine{Line: lineNo, Text: text, Err: decodeErr})
			} else {
				result.Records = append(result.Records, rec)
			}
		}

		if readErr != nil {
			break
		}
	}

	s.log.Debug(ctx, "loaded records", "records", len(result.Records), "skipped", len(result.Skipped))

	return result, nil
}

func (s *Store) unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, op, s.path, err)
}

// missingTrailingNewline reports whether a non-empty file does not end in '\n'.
func missingTrailingNewline(f fs.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}

	if info.Size() == 0 {
		return false, nil
	}

	if _, err := f.Seek(info.Size()-1, io.SeekStart); err != nil {
		return false, err
	}

	last := make([]byte, 1)
	if _, err := io.ReadFull(f, last); err != nil {
		return false, err
	}

	return last[0] != '\n', nil
}
