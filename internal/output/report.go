package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/authdrill/authdrill/internal/metrics"
)

// PrintSummary outputs the human-readable summary block. It is always
// produced from in-memory aggregates, so report persistence failures cannot
// suppress it.
func PrintSummary(w io.Writer, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Login Load Test Results ---")
	fmt.Fprintf(w, "Iterations:        %d\n", stats.Iterations)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	if stats.Skipped > 0 {
		fmt.Fprintf(w, "Not run:           %d\n", stats.Skipped)
	}
	fmt.Fprintf(w, "Success rate:      %.1f%%\n", stats.SuccessRate)
	fmt.Fprintf(w, "Elapsed:           %s\n", stats.Elapsed)
	fmt.Fprintln(w, "\nSession duration:")
	fmt.Fprintf(w, "  Min:             %s\n", formatDuration(stats, stats.MinDuration))
	fmt.Fprintf(w, "  Max:             %s\n", formatDuration(stats, stats.MaxDuration))
	fmt.Fprintf(w, "  Avg:             %s\n", formatDuration(stats, stats.AvgDuration))
	fmt.Fprintf(w, "  P50:             %s\n", formatDuration(stats, stats.P50Duration))
	fmt.Fprintf(w, "  P90:             %s\n", formatDuration(stats, stats.P90Duration))
	fmt.Fprintf(w, "  P99:             %s\n", formatDuration(stats, stats.P99Duration))
}

// formatDuration renders "n/a" when no successful session produced a
// duration, never a zero artifact.
func formatDuration(stats metrics.Stats, d time.Duration) string {
	if !stats.HasDurations() {
		return "n/a"
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// PrintJSONSummary outputs a machine-readable summary.
func PrintJSONSummary(w io.Writer, stats metrics.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
