package cli

import (
	"github.com/calvinalkan/attendance/internal/record"
	"github.com/calvinalkan/attendance/internal/report"
	"github.com/calvinalkan/attendance/internal/store"
)

// maxSkippedWarnings caps per-line warnings; the rest are summarized.
const maxSkippedWarnings = 5

func warnSkipped(o *IO, skipped []store.SkippedLine) {
	for i, sk := range skipped {
		if i == maxSkippedWarnings {
			o.Warn("%d more malformed line(s) skipped", len(skipped)-maxSkippedWarnings)

			return
		}

		o.Warn("skipped malformed line %d: %v", sk.Line, sk.Err)
	}
}

func printStudent(o *IO, rep report.StudentReport) {
	warnSkipped(o, rep.Skipped)

	if rep.NoData {
		o.Printf("No records found for %s.\n", rep.StudentID)

		return
	}

	o.Printf("Stats for %s: Attended %d/%d (%.2f%%)\n",
		rep.StudentID, rep.Stats.Present, rep.Stats.Total, rep.Stats.Percentage)
}

func printDefaulter(o *IO, rep report.DefaulterReport) {
	warnSkipped(o, rep.Skipped)

	if rep.NoData {
		o.Printf("No records found for %s.\n", rep.StudentID)

		return
	}

	if rep.Check.IsDefaulter {
		o.Printf("[ALERT] %s is a DEFAULTER. Attendance: %.2f%%\n", rep.StudentID, rep.Check.Percentage)

		return
	}

	o.Printf("[OK] %s is safe. Attendance: %.2f%%\n", rep.StudentID, rep.Check.Percentage)
}

func printDefaulters(o *IO, rep report.DefaultersReport) {
	warnSkipped(o, rep.Skipped)

	if rep.NoData {
		o.Println("No attendance data recorded.")

		return
	}

	if len(rep.Defaulters) == 0 {
		o.Printf("No defaulters below %.2f%% among %d student(s).\n", rep.Threshold, rep.Students)

		return
	}

	for _, d := range rep.Defaulters {
		o.Printf("[ALERT] %s is a DEFAULTER. Attendance: %d/%d (%.2f%%)\n",
			d.StudentID, d.Present, d.Total, d.Percentage)
	}

	o.Printf("%d of %d student(s) below %.2f%%\n", len(rep.Defaulters), rep.Students, rep.Threshold)
}

func printDensity(o *IO, rep report.DensityReport) {
	warnSkipped(o, rep.Skipped)

	if rep.NoData {
		o.Println("No attendance data recorded.")

		return
	}

	o.Println("--- Lecture-wise Trends ---")

	for _, d := range rep.ByDate {
		o.Printf("%s: %d/%d present (%.2f%%)\n", d.Date, d.TotalPresent, d.TotalRecords, d.Density.Density)
	}

	o.Printf("Total Lectures Recorded: %d\n", rep.Density.TotalRecords)
	o.Printf("Total Presences Recorded: %d\n", rep.Density.TotalPresent)
	o.Printf("Average Attendance Density: %.2f%%\n", rep.Density.Density)
}

func printRecord(o *IO, rec record.Record) {
	o.Println(record.Encode(rec))
}
