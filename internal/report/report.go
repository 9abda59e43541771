// Package report answers attendance queries by loading the store and
// handing the records to package aggregate.
//
// Each query loads the store once. "No data" outcomes are results with
// NoData set, not errors; only storage failures and invalid input are
// returned as errors.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/attendance/internal/aggregate"
	"github.com/calvinalkan/attendance/internal/fs"
	"github.com/calvinalkan/attendance/internal/logging"
	"github.com/calvinalkan/attendance/internal/record"
	"github.com/calvinalkan/attendance/internal/store"
)

// Source is the subset of [store.Store] the engine uses.
type Source interface {
	Append(ctx context.Context, rec record.Record) error
	LoadAll(ctx context.Context) (store.LoadResult, error)
}

// Options configures an Engine. Zero values use the real filesystem and a
// discarding logger.
type Options struct {
	FS     fs.FS
	Logger logging.Logger
}

// Engine runs reports against a Source.
type Engine struct {
	src Source
	fs  fs.FS
	log logging.Logger
}

// New returns an Engine reading from src.
func New(src Source, opts Options) *Engine {
	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	var log logging.Logger = logging.Nop()
	if opts.Logger != nil {
		log = opts.Logger
	}

	return &Engine{src: src, fs: fsys, log: log}
}

// StudentReport answers "what is this student's attendance".
type StudentReport struct {
	StudentID string
	NoData    bool
	Stats     aggregate.Stats
	Skipped   []store.SkippedLine
}

// DefaulterReport answers "is this student below the threshold".
type DefaulterReport struct {
	StudentID string
	NoData    bool
	Check     aggregate.DefaulterCheck
	Skipped   []store.SkippedLine
}

// DensityReport is the class-wide presence density, optionally per date.
type DensityReport struct {
	NoData  bool
	Density aggregate.Density
	ByDate  []aggregate.DateDensity
	Skipped []store.SkippedLine
}

// DefaultersReport lists every student below the threshold.
type DefaultersReport struct {
	NoData     bool
	Threshold  float64
	Students   int
	Defaulters []aggregate.DefaulterCheck
	Skipped    []store.SkippedLine
}

// Filter narrows [Engine.List]. Empty fields match everything.
type Filter struct {
	StudentID string
	Date      string
}

// ListReport holds records in store order.
type ListReport struct {
	Records []record.Record
	Skipped []store.SkippedLine
}

// Mark validates the input and appends one record.
func (e *Engine) Mark(ctx context.Context, studentID, date string, status record.Status) (record.Record, error) {
	rec, err := record.New(studentID, date, status)
	if err != nil {
		return record.Record{}, fmt.Errorf("mark: %w", err)
	}

	if err := e.src.Append(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("mark: %w", err)
	}

	e.log.Info(ctx, "attendance marked", "student", rec.StudentID, "date", rec.Date, "status", int(rec.Status))

	return rec, nil
}

// Student reports one student's totals and percentage.
func (e *Engine) Student(ctx context.Context, studentID string) (StudentReport, error) {
	loaded, err := e.load(ctx)
	if err != nil {
		return StudentReport{}, err
	}

	out := StudentReport{StudentID: studentID, Skipped: loaded.Skipped}

	stats, err := aggregate.StatsFor(loaded.Records, studentID)
	if err != nil {
		if !errors.Is(err, aggregate.ErrNoRecordsFound) {
			return StudentReport{}, err
		}

		out.NoData = true

		return out, nil
	}

	out.Stats = stats

	return out, nil
}

// Defaulter checks one student against threshold.
func (e *Engine) Defaulter(ctx context.Context, studentID string, threshold float64) (DefaulterReport, error) {
	if err := aggregate.ValidateThreshold(threshold); err != nil {
		return DefaulterReport{}, err
	}

	loaded, err := e.load(ctx)
	if err != nil {
		return DefaulterReport{}, err
	}

	out := DefaulterReport{StudentID: studentID, Skipped: loaded.Skipped}

	check, err := aggregate.IsDefaulter(loaded.Records, studentID, threshold)
	if err != nil {
		if !errors.Is(err, aggregate.ErrNoRecordsFound) {
			return DefaulterReport{}, err
		}

		out.NoData = true
		out.Check.Threshold = threshold

		return out, nil
	}

	out.Check = check

	return out, nil
}

// Density reports the overall presence density. With byDate set it also
// breaks the records down per date.
func (e *Engine) Density(ctx context.Context, byDate bool) (DensityReport, error) {
	loaded, err := e.load(ctx)
	if err != nil {
		return DensityReport{}, err
	}

	out := DensityReport{Skipped: loaded.Skipped}

	density, err := aggregate.OverallDensity(loaded.Records)
	if err != nil {
		if !errors.Is(err, aggregate.ErrNoData) {
			return DensityReport{}, err
		}

		out.NoData = true

		return out, nil
	}

	out.Density = density

	if byDate {
		// Non-empty here, so ByDate cannot fail with ErrNoData.
		out.ByDate, err = aggregate.ByDate(loaded.Records)
		if err != nil {
			return DensityReport{}, err
		}
	}

	return out, nil
}

// Defaulters lists every student below threshold.
func (e *Engine) Defaulters(ctx context.Context, threshold float64) (DefaultersReport, error) {
	if err := aggregate.ValidateThreshold(threshold); err != nil {
		return DefaultersReport{}, err
	}

	loaded, err := e.load(ctx)
	if err != nil {
		return DefaultersReport{}, err
	}

	out := DefaultersReport{Threshold: threshold, Skipped: loaded.Skipped}

	list, err := aggregate.Defaulters(loaded.Records, threshold)
	if err != nil {
		if !errors.Is(err, aggregate.ErrNoData) {
			return DefaultersReport{}, err
		}

		out.NoData = true

		return out, nil
	}

	out.Students = len(aggregate.Students(loaded.Records))
	out.Defaulters = list

	return out, nil
}

// List returns the stored records matching filter, in store order.
func (e *Engine) List(ctx context.Context, filter Filter) (ListReport, error) {
	loaded, err := e.load(ctx)
	if err != nil {
		return ListReport{}, err
	}

	out := ListReport{Records: []record.Record{}, Skipped: loaded.Skipped}

	for _, rec := range loaded.Records {
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}

		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}

		out.Records = append(out.Records, rec)
	}

	return out, nil
}

func (e *Engine) load(ctx context.Context) (store.LoadResult, error) {
	loaded, err := e.src.LoadAll(ctx)
	if err != nil {
		return store.LoadResult{}, fmt.Errorf("load records: %w", err)
	}

	return loaded, nil
}
