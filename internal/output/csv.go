// Package output renders run results: the delimited per-session report, the
// console and JSON summaries, the live progress line, and the run manifest.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/authdrill/authdrill/internal/scheduler"
)

// TimeLayout formats report timestamps as human-readable local date-time.
const TimeLayout = "2006-01-02 15:04:05"

var reportHeader = []string{"Iteration", "Start time", "Finish Time", "Duration", "Failure reason"}

// WriteCSV writes the header plus one row per result, in index order. Absent
// fields render empty: a failed session has no finish time or duration, a
// skipped one not even a start time.
func WriteCSV(w io.Writer, results []scheduler.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{strconv.Itoa(r.Index), "", "", "", r.FailureReason}
		if !r.Start.IsZero() {
			row[1] = r.Start.Local().Format(TimeLayout)
		}
		if !r.Finish.IsZero() {
			row[2] = r.Finish.Local().Format(TimeLayout)
		}
		if d, ok := r.Duration(); ok {
			row[3] = strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport persists the CSV report to path. A sibling lock file guards the
// destination so concurrent runs sharing it cannot interleave rows.
func WriteReport(path string, results []scheduler.Result) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock report file: %w", err)
	}
	defer lock.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}
