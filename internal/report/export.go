package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/calvinalkan/attendance/internal/aggregate"
	"github.com/calvinalkan/attendance/internal/record"
)

const (
	exportPerm    = 0o644
	exportDirPerm = 0o755
)

// Snapshot is the JSON document written by [Engine.Export].
type Snapshot struct {
	Threshold    float64                    `json:"threshold"`
	Records      []record.Record            `json:"records"`
	Students     []aggregate.Stats          `json:"students"`
	Defaulters   []aggregate.DefaulterCheck `json:"defaulters"`
	Density      *aggregate.Density         `json:"density"`
	ByDate       []aggregate.DateDensity    `json:"by_date"`
	SkippedLines int                        `json:"skipped_lines"`
}

// Export writes a JSON snapshot of the store and every derived report to
// path, atomically replacing any existing file. Missing parent directories
// are created. An empty store exports a
// snapshot with a null density and empty lists.
func (e *Engine) Export(ctx context.Context, path string, threshold float64) (Snapshot, error) {
	if err := aggregate.ValidateThreshold(threshold); err != nil {
		return Snapshot{}, err
	}

	loaded, err := e.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Threshold:    threshold,
		Records:      loaded.Records,
		Students:     aggregate.AllStats(loaded.Records),
		Defaulters:   []aggregate.DefaulterCheck{},
		ByDate:       []aggregate.DateDensity{},
		SkippedLines: len(loaded.Skipped),
	}

	density, err := aggregate.OverallDensity(loaded.Records)
	switch {
	case err == nil:
		snap.Density = &density

		snap.ByDate, err = aggregate.ByDate(loaded.Records)
		if err != nil {
			return Snapshot{}, err
		}

		defaulters, err := aggregate.Defaulters(loaded.Records, threshold)
		if err != nil {
			return Snapshot{}, err
		}

		if defaulters != nil {
			snap.Defaulters = defaulters
		}
	case errors.Is(err, aggregate.ErrNoData):
	default:
		return Snapshot{}, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("export: encode: %w", err)
	}

	if err := e.fs.MkdirAll(filepath.Dir(path), exportDirPerm); err != nil {
		return Snapshot{}, fmt.Errorf("export: create directory: %w", err)
	}

	if err := e.fs.WriteFileAtomic(path, append(data, '\n'), exportPerm); err != nil {
		return Snapshot{}, fmt.Errorf("export: write %s: %w", path, err)
	}

	e.log.Info(ctx, "exported snapshot", "path", path, "records", len(snap.Records))

	return snap, nil
}
