package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/authdrill/authdrill/internal/scheduler"
)

// Stats represents the aggregate statistics of one finished run.
type Stats struct {
	Iterations  int     `json:"iterations"`
	Successes   int     `json:"successes"`
	Failures    int     `json:"failures"`
	Skipped     int     `json:"skipped"`
	SuccessRate float64 `json:"success_rate"`

	MinDuration time.Duration `json:"-"`
	MaxDuration time.Duration `json:"-"`
	AvgDuration time.Duration `json:"-"`
	P50Duration time.Duration `json:"-"`
	P90Duration time.Duration `json:"-"`
	P99Duration time.Duration `json:"-"`
	Elapsed     time.Duration `json:"-"`

	// JSON-friendly second fields.
	MinSeconds     float64 `json:"min_duration_s"`
	MaxSeconds     float64 `json:"max_duration_s"`
	AvgSeconds     float64 `json:"avg_duration_s"`
	P50Seconds     float64 `json:"p50_duration_s"`
	P90Seconds     float64 `json:"p90_duration_s"`
	P99Seconds     float64 `json:"p99_duration_s"`
	ElapsedSeconds float64 `json:"elapsed_s"`
}

// HasDurations reports whether any duration statistic is defined. Durations
// exist only for successful sessions; with zero successes the printers render
// "n/a" instead of a numeric artifact.
func (s Stats) HasDurations() bool { return s.Successes > 0 }

// Summarize computes aggregate statistics over the index-ordered result list.
// It runs strictly after drain, single-threaded, over immutable data.
func Summarize(results []scheduler.Result, elapsed time.Duration) Stats {
	// Track session durations from 1ms up to 10min with 3 significant figures.
	hist := hdrhistogram.New(1, 600_000, 3)

	stats := Stats{Iterations: len(results)}
	var sum time.Duration
	for _, r := range results {
		if r.FailureReason == scheduler.SkippedReason {
			stats.Skipped++
		}
		d, ok := r.Duration()
		if !r.Succeeded() || !ok {
			stats.Failures++
			continue
		}
		stats.Successes++
		sum += d
		if stats.MinDuration == 0 || d < stats.MinDuration {
			stats.MinDuration = d
		}
		if d > stats.MaxDuration {
			stats.MaxDuration = d
		}
		ms := d.Milliseconds()
		if ms < hist.LowestTrackableValue() {
			ms = hist.LowestTrackableValue()
		}
		if ms > hist.HighestTrackableValue() {
			ms = hist.HighestTrackableValue()
		}
		_ = hist.RecordValue(ms)
	}

	if stats.Iterations > 0 {
		stats.SuccessRate = 100 * float64(stats.Successes) / float64(stats.Iterations)
	}
	if stats.Successes > 0 {
		stats.AvgDuration = sum / time.Duration(stats.Successes)
	}
	if hist.TotalCount() > 0 {
		stats.P50Duration = time.Duration(hist.ValueAtQuantile(50)) * time.Millisecond
		stats.P90Duration = time.Duration(hist.ValueAtQuantile(90)) * time.Millisecond
		stats.P99Duration = time.Duration(hist.ValueAtQuantile(99)) * time.Millisecond
	}

	stats.Elapsed = elapsed
	stats.MinSeconds = stats.MinDuration.Seconds()
	stats.MaxSeconds = stats.MaxDuration.Seconds()
	stats.AvgSeconds = stats.AvgDuration.Seconds()
	stats.P50Seconds = stats.P50Duration.Seconds()
	stats.P90Seconds = stats.P90Duration.Seconds()
	stats.P99Seconds = stats.P99Duration.Seconds()
	stats.ElapsedSeconds = elapsed.Seconds()

	return stats
}
