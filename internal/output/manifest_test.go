package output_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/authdrill/authdrill/internal/metrics"
	"github.com/authdrill/authdrill/internal/output"
	"github.com/authdrill/authdrill/internal/scheduler"
)

func TestManifestRoundTrip(t *testing.T) {
	base := time.Now()
	stats := metrics.Summarize([]scheduler.Result{
		{Index: 0, Start: base, Finish: base.Add(time.Second)},
		{Index: 1, Start: base, FailureReason: "ended on wrong page"},
	}, 5*time.Second)

	manifest := output.Manifest{
		RunID:       "01JX3YBAR6C9M4T1K8Q2W5E7ZD",
		CreatedAt:   base,
		TargetURL:   "http://target.test/login",
		Iterations:  2,
		Concurrency: 1,
		PoolSize:    3,
		Summary:     output.SummaryFromStats(stats),
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := output.WriteManifest(path, manifest); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded output.Manifest
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if decoded.RunID != manifest.RunID || decoded.TargetURL != manifest.TargetURL {
		t.Fatalf("manifest identity changed: %+v", decoded)
	}
	if decoded.Summary.Successes != 1 || decoded.Summary.Failures != 1 {
		t.Fatalf("summary changed: %+v", decoded.Summary)
	}
	if decoded.Summary.SuccessRate != 50 {
		t.Fatalf("success rate = %g", decoded.Summary.SuccessRate)
	}
}
