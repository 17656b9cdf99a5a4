package output

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/authdrill/authdrill/internal/metrics"
)

// Manifest records what a run was configured to do and how it went. It is
// written next to the run's artifacts so captures stay attributable.
type Manifest struct {
	RunID       string          `yaml:"run_id"`
	CreatedAt   time.Time       `yaml:"created_at"`
	TargetURL   string          `yaml:"target"`
	Iterations  int             `yaml:"iterations"`
	Concurrency int             `yaml:"concurrency"`
	Rate        int             `yaml:"rate,omitempty"`
	PoolSize    int             `yaml:"credential_pool_size"`
	Summary     ManifestSummary `yaml:"summary"`
}

// ManifestSummary is the YAML projection of the aggregate statistics.
type ManifestSummary struct {
	Successes    int     `yaml:"successes"`
	Failures     int     `yaml:"failures"`
	Skipped      int     `yaml:"skipped,omitempty"`
	SuccessRate  float64 `yaml:"success_rate"`
	MinDurationS float64 `yaml:"min_duration_s"`
	MaxDurationS float64 `yaml:"max_duration_s"`
	AvgDurationS float64 `yaml:"avg_duration_s"`
	ElapsedS     float64 `yaml:"elapsed_s"`
}

// SummaryFromStats projects aggregate statistics into the manifest shape.
func SummaryFromStats(stats metrics.Stats) ManifestSummary {
	return ManifestSummary{
		Successes:    stats.Successes,
		Failures:     stats.Failures,
		Skipped:      stats.Skipped,
		SuccessRate:  stats.SuccessRate,
		MinDurationS: stats.MinSeconds,
		MaxDurationS: stats.MaxSeconds,
		AvgDurationS: stats.AvgSeconds,
		ElapsedS:     stats.ElapsedSeconds,
	}
}

// WriteManifest persists the manifest as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
