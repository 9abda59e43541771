package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/attendance/internal/aggregate"
	"github.com/calvinalkan/attendance/internal/record"
	"github.com/calvinalkan/attendance/internal/report"
	"github.com/calvinalkan/attendance/internal/store"
)

func newEngine(t *testing.T, content string) (*report.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "attendance_db.txt")

	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	s, err := store.Open(path, store.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return report.New(s, report.Options{}), dir
}

const scenario = "S1 2024-01-01 1\nS1 2024-01-02 0\nS2 2024-01-01 1\n"

func Test_Student_Reports_Stats(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario)

	got, err := e.Student(t.Context(), "S1")
	if err != nil {
		t.Fatalf("Student: %v", err)
	}

	want := report.StudentReport{
		StudentID: "S1",
		Stats:     aggregate.Stats{StudentID: "S1", Total: 2, Present: 1, Percentage: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Student mismatch (-want +got):\n%s", diff)
	}
}

func Test_Student_Returns_NoData_For_Unknown_Student_And_Empty_Store(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", scenario} {
		e, _ := newEngine(t, content)

		got, err := e.Student(t.Context(), "S9")
		if err != nil {
			t.Fatalf("Student: %v", err)
		}

		if !got.NoData {
			t.Fatalf("NoData = false, want true (content %q)", content)
		}
	}
}

func Test_Defaulter_Scenario(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario)

	got, err := e.Defaulter(t.Context(), "S1", 75)
	if err != nil {
		t.Fatalf("Defaulter: %v", err)
	}

	if got.NoData || !got.Check.IsDefaulter || got.Check.Percentage != 50 {
		t.Fatalf("Defaulter = %+v, want defaulter at 50%%", got)
	}

	got, err = e.Defaulter(t.Context(), "S9", 75)
	if err != nil {
		t.Fatalf("Defaulter: %v", err)
	}

	if !got.NoData || got.Check.Threshold != 75 {
		t.Fatalf("Defaulter(S9) = %+v, want NoData with threshold 75", got)
	}
}

func Test_Defaulter_Rejects_Invalid_Threshold(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario)

	_, err := e.Defaulter(t.Context(), "S1", 150)
	if !errors.Is(err, aggregate.ErrInvalidThreshold) {
		t.Fatalf("err = %v, want ErrInvalidThreshold", err)
	}
}

func Test_Density_Scenario_With_ByDate(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario)

	got, err := e.Density(t.Context(), true)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}

	if got.NoData || got.Density.TotalRecords != 3 || got.Density.TotalPresent != 2 {
		t.Fatalf("Density = %+v, want 3 records 2 present", got)
	}

	if len(got.ByDate) != 2 || got.ByDate[0].Date != "2024-01-01" {
		t.Fatalf("ByDate = %+v, want two dates starting 2024-01-01", got.ByDate)
	}

	plain, err := e.Density(t.Context(), false)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}

	if plain.ByDate != nil {
		t.Fatalf("ByDate = %+v, want nil without byDate", plain.ByDate)
	}
}

func Test_Density_Returns_NoData_When_Store_Missing(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, "")

	got, err := e.Density(t.Context(), true)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}

	if !got.NoData {
		t.Fatalf("NoData = false, want true")
	}
}

func Test_Density_Returns_NoData_When_Every_Line_Is_Malformed(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, "bad\nalso bad line here\n")

	got, err := e.Density(t.Context(), false)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}

	if !got.NoData || len(got.Skipped) != 2 {
		t.Fatalf("Density = %+v, want NoData with 2 skipped lines", got)
	}
}

func Test_Defaulters_Lists_All_Below_Threshold(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario+"S3 2024-01-01 0\n")

	got, err := e.Defaulters(t.Context(), 75)
	if err != nil {
		t.Fatalf("Defaulters: %v", err)
	}

	if got.Students != 3 || len(got.Defaulters) != 2 {
		t.Fatalf("Defaulters = %+v, want 3 students 2 defaulters", got)
	}

	empty, _ := newEngine(t, "")

	none, err := empty.Defaulters(t.Context(), 75)
	if err != nil {
		t.Fatalf("Defaulters: %v", err)
	}

	if !none.NoData {
		t.Fatalf("NoData = false, want true")
	}
}

func Test_Mark_Appends_And_Is_Visible_To_Reports(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, "")
	ctx := t.Context()

	for _, status := range []record.Status{record.Present, record.Present, record.Absent, record.Present} {
		if _, err := e.Mark(ctx, "S1", "2024-01-01", status); err != nil {
			t.Fatalf("Mark: %v", err)
		}
	}

	got, err := e.Student(ctx, "S1")
	if err != nil {
		t.Fatalf("Student: %v", err)
	}

	if got.Stats.Total != 4 || got.Stats.Present != 3 || got.Stats.Percentage != 75 {
		t.Fatalf("Stats = %+v, want 3/4 75%%", got.Stats)
	}
}

func Test_Mark_Rejects_Invalid_Status(t *testing.T) {
	t.Parallel()

	e, dir := newEngine(t, "")

	_, err := e.Mark(t.Context(), "S1", "2024-01-01", 3)
	if !errors.Is(err, record.ErrInvalidStatusValue) {
		t.Fatalf("err = %v, want ErrInvalidStatusValue", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "attendance_db.txt")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("store must not be created, stat err = %v", statErr)
	}
}

func Test_List_Filters_By_Student_And_Date(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, scenario)

	tests := []struct {
		filter report.Filter
		want   int
	}{
		{report.Filter{}, 3},
		{report.Filter{StudentID: "S1"}, 2},
		{report.Filter{Date: "2024-01-01"}, 2},
		{report.Filter{StudentID: "S1", Date: "2024-01-02"}, 1},
		{report.Filter{StudentID: "S9"}, 0},
	}

	for _, tt := range tests {
		got, err := e.List(t.Context(), tt.filter)
		if err != nil {
			t.Fatalf("List(%+v): %v", tt.filter, err)
		}

		if len(got.Records) != tt.want {
			t.Fatalf("List(%+v) = %d records, want %d", tt.filter, len(got.Records), tt.want)
		}
	}
}

func Test_Export_Writes_Snapshot(t *testing.T) {
	t.Parallel()

	e, dir := newEngine(t, scenario+"oops\n")
	out := filepath.Join(dir, "snapshot.json")

	snap, err := e.Export(t.Context(), out, 75)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var decoded report.Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}

	if diff := cmp.Diff(snap, decoded); diff != "" {
		t.Fatalf("written snapshot differs from returned (-returned +written):\n%s", diff)
	}

	if decoded.SkippedLines != 1 || len(decoded.Records) != 3 || len(decoded.Students) != 2 {
		t.Fatalf("snapshot = %+v, want 3 records, 2 students, 1 skipped", decoded)
	}

	if decoded.Density == nil || decoded.Density.TotalPresent != 2 {
		t.Fatalf("density = %+v, want 2 present", decoded.Density)
	}

	if len(decoded.Defaulters) != 1 || decoded.Defaulters[0].StudentID != "S1" {
		t.Fatalf("defaulters = %+v, want [S1]", decoded.Defaulters)
	}
}

func Test_Export_Empty_Store_Has_Null_Density(t *testing.T) {
	t.Parallel()

	e, dir := newEngine(t, "")

	snap, err := e.Export(t.Context(), filepath.Join(dir, "snapshot.json"), 75)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if snap.Density != nil || len(snap.Records) != 0 || len(snap.Defaulters) != 0 {
		t.Fatalf("snapshot = %+v, want empty", snap)
	}
}

// brokenSource fails every call with errBroken.
type brokenSource struct{}

var errBroken = errors.New("disk on fire")

func (brokenSource) Append(context.Context, record.Record) error { return errBroken }

func (brokenSource) LoadAll(context.Context) (store.LoadResult, error) {
	return store.LoadResult{}, errBroken
}

func Test_Engine_Propagates_Source_Errors(t *testing.T) {
	t.Parallel()

	e := report.New(brokenSource{}, report.Options{})
	ctx := t.Context()

	checks := map[string]error{}

	_, checks["student"] = e.Student(ctx, "S1")
	_, checks["defaulter"] = e.Defaulter(ctx, "S1", 75)
	_, checks["density"] = e.Density(ctx, false)
	_, checks["defaulters"] = e.Defaulters(ctx, 75)
	_, checks["list"] = e.List(ctx, report.Filter{})
	_, checks["mark"] = e.Mark(ctx, "S1", "d", 1)
	_, checks["export"] = e.Export(ctx, filepath.Join(t.TempDir(), "x.json"), 75)

	for name, err := range checks {
		if !errors.Is(err, errBroken) {
			t.Errorf("%s err = %v, want errBroken", name, err)
		}
	}
}
