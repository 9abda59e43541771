// Package aggregate computes attendance statistics over a loaded record set.
//
// Every function is a linear scan over the slice it is given. Nothing is
// cached or indexed between calls. Only status 1 counts as present.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/calvinalkan/attendance/internal/record"
)

var (
	// ErrNoRecordsFound reports that a student has no records.
	ErrNoRecordsFound = errors.New("no records found")

	// ErrNoData reports an empty record set.
	ErrNoData = errors.New("no attendance data")

	// ErrInvalidThreshold reports a threshold that is NaN or outside [0, 100].
	ErrInvalidThreshold = errors.New("invalid threshold (must be between 0 and 100)")
)

// Stats is one student's attendance summary.
type Stats struct {
	StudentID  string  `json:"student_id"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// DefaulterCheck is the result of comparing a student's percentage to a threshold.
type DefaulterCheck struct {
	Stats

	Threshold   float64 `json:"threshold"`
	IsDefaulter bool    `json:"is_defaulter"`
}

// Density is the share of present markings across a set of records.
type Density struct {
	TotalRecords int     `json:"total_records"`
	TotalPresent int     `json:"total_present"`
	Density      float64 `json:"density"`
}

// DateDensity is [Density] restricted to a single date.
type DateDensity struct {
	Date string `json:"date"`
	Density
}

// StatsFor counts the records of studentID (exact match) and the ones
// marked present. Returns [ErrNoRecordsFound] when there are none.
func StatsFor(records []record.Record, studentID string) (Stats, error) {
	stats := Stats{StudentID: studentID}

	for _, rec := range records {
		if rec.StudentID != studentID {
			continue
		}

		stats.Total++

		if rec.IsPresent() {
			stats.Present++
		}
	}

	if stats.Total == 0 {
		return Stats{}, fmt.Errorf("%w for %s", ErrNoRecordsFound, studentID)
	}

	stats.Percentage = percent(stats.Present, stats.Total)

	return stats, nil
}

// IsDefaulter reports whether studentID's percentage is strictly below
// threshold. Returns [ErrNoRecordsFound] when the student has no records
// and [ErrInvalidThreshold] for a threshold outside [0, 100].
func IsDefaulter(records []record.Record, studentID string, threshold float64) (DefaulterCheck, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return DefaulterCheck{}, err
	}

	stats, err := StatsFor(records, studentID)
	if err != nil {
		return DefaulterCheck{}, err
	}

	return check(stats, threshold), nil
}

// OverallDensity counts all records and all present markings.
// Returns [ErrNoData] for an empty set.
func OverallDensity(records []record.Record) (Density, error) {
	if len(records) == 0 {
		return Density{}, ErrNoData
	}

	d := Density{TotalRecords: len(records)}

	for _, rec := range records {
		if rec.IsPresent() {
			d.TotalPresent++
		}
	}

	d.Density = percent(d.TotalPresent, d.TotalRecords)

	return d, nil
}

// Students returns the distinct student IDs in order of first appearance.
func Students(records []record.Record) []string {
	seen := make(map[string]struct{})

	var ids []string

	for _, rec := range records {
		if _, ok := seen[rec.StudentID]; ok {
			continue
		}

		seen[rec.StudentID] = struct{}{}
		ids = append(ids, rec.StudentID)
	}

	return ids
}

// AllStats returns [Stats] for every student in order of first appearance.
func AllStats(records []record.Record) []Stats {
	ids := Students(records)
	index := make(map[string]int, len(ids))
	all := make([]Stats, len(ids))

	for i, id := range ids {
		index[id] = i
		all[i].StudentID = id
	}

	for _, rec := range records {
		s := &all[index[rec.StudentID]]
		s.Total++

		if rec.IsPresent() {
			s.Present++
		}
	}

	for i := range all {
		all[i].Percentage = percent(all[i].Present, all[i].Total)
	}

	return all
}

// Defaulters returns the students whose percentage is below threshold, in
// order of first appearance. Returns [ErrNoData] for an empty set.
func Defaulters(records []record.Record, threshold float64) ([]DefaulterCheck, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrNoData
	}

	var out []DefaulterCheck

	for _, stats := range AllStats(records) {
		if c := check(stats, threshold); c.IsDefaulter {
			out = append(out, c)
		}
	}

	return out, nil
}

// ByDate groups records by date (first-seen order) and computes the
// density of each group. Returns [ErrNoData] for an empty set.
func ByDate(records []record.Record) ([]DateDensity, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	index := make(map[string]int)

	var out []DateDensity

	for _, rec := range records {
		i, ok := index[rec.Date]
		if !ok {
			i = len(out)
			index[rec.Date] = i
			out = append(out, DateDensity{Date: rec.Date})
		}

		out[i].TotalRecords++

		if rec.IsPresent() {
			out[i].TotalPresent++
		}
	}

	for i := range out {
		out[i].Density.Density = percent(out[i].TotalPresent, out[i].TotalRecords)
	}

	return out, nil
}

// ValidateThreshold rejects NaN and values outside [0, 100].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	return nil
}

func check(stats Stats, threshold float64) DefaulterCheck {
	return DefaulterCheck{
		Stats:       stats,
		Threshold:   threshold,
		IsDefaulter: stats.Percentage < threshold,
	}
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
