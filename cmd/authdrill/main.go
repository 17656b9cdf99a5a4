package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/authdrill/authdrill/internal/config"
	"github.com/authdrill/authdrill/internal/creds"
	"github.com/authdrill/authdrill/internal/dashboard"
	"github.com/authdrill/authdrill/internal/metrics"
	"github.com/authdrill/authdrill/internal/output"
	"github.com/authdrill/authdrill/internal/scheduler"
	"github.com/authdrill/authdrill/internal/session"
	"github.com/authdrill/authdrill/internal/shutdown"
	"github.com/authdrill/authdrill/internal/tracing"
)

const progressInterval = time.Second

type stderrFailureLogger struct {
	mu sync.Mutex
}

func (l *stderrFailureLogger) LogFailure(err error) {
	l.mu.Lock()
	fmt.Fprintf(os.Stderr, "session failed: %v\n", err)
	l.mu.Unlock()
}

// seededSource makes credential selection reproducible across runs.
type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// fanoutObserver forwards lifecycle events to every listener.
type fanoutObserver []scheduler.Observer

func (f fanoutObserver) TaskStarted(index int) {
	for _, o := range f {
		o.TaskStarted(index)
	}
}

func (f fanoutObserver) TaskFinished(index int, err error) {
	for _, o := range f {
		o.TaskFinished(index, err)
	}
}

func (f fanoutObserver) TaskSkipped(index int) {
	for _, o := range f {
		o.TaskSkipped(index)
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool, err := buildPool(cfg)
	if err != nil {
		return err
	}
	var src creds.Source
	if cfg.Seed != 0 {
		src = &seededSource{rnd: rand.New(rand.NewSource(cfg.Seed))}
	}
	selector, err := creds.NewSelector(pool, src)
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	artifactRoot := ""
	if cfg.ArtifactDir != "" {
		artifactRoot = filepath.Join(cfg.ArtifactDir, runID)
		if err := os.MkdirAll(artifactRoot, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())

	chrome, err := session.NewChrome(session.ChromeOptions{
		TargetURL:        cfg.TargetURL,
		UsernameSelector: cfg.UsernameSelector,
		PasswordSelector: cfg.PasswordSelector,
		SubmitSelector:   cfg.SubmitSelector,
		SuccessSelector:  cfg.SuccessSelector,
		SuccessURLPart:   cfg.SuccessURLPart,
		Timeout:          cfg.Timeout,
		Headless:         cfg.Headless,
		ChromePath:       cfg.ChromePath,
	})
	if err != nil {
		return err
	}
	defer chrome.Close()

	var driver session.Driver = chrome
	if cfg.Tracing.Enabled() {
		driver = tracing.WrapDriver(provider.Tracer(), driver)
	}
	if cfg.LogErrors {
		driver = scheduler.WithLogging(driver, &stderrFailureLogger{})
	}

	tracker := metrics.NewTracker()
	observers := fanoutObserver{tracker}

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(tracker, dashboard.RunConfig{
			TargetURL:   cfg.TargetURL,
			Iterations:  cfg.Iterations,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.Rate,
		}, cancel)
		if err != nil {
			return err
		}
		observers = append(observers, dash)
		dash.Start()
	}

	// Screenshot capture silently no-ops unless a destination is configured.
	captureRoot := ""
	if cfg.Screenshots && artifactRoot != "" {
		captureRoot = filepath.Join(artifactRoot, "tasks")
	}

	sched, err := scheduler.New(scheduler.Options{
		Iterations:   cfg.Iterations,
		Concurrency:  cfg.Concurrency,
		Rate:         cfg.Rate,
		Driver:       driver,
		Selector:     selector,
		ArtifactRoot: captureRoot,
		Observer:     observers,
	})
	if err != nil {
		if dash != nil {
			dash.Stop()
		}
		return err
	}

	watchdog := &shutdown.Watchdog{Grace: cfg.Grace}
	disarm := watchdog.Arm(ctx)
	defer disarm()

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(tracker, cfg.Iterations, progressInterval, os.Stdout)
		progress.Start()
	}

	start := time.Now()
	results, runErr := sched.Run(ctx)
	elapsed := time.Since(start)
	disarm()

	if progress != nil {
		progress.Stop()
		fmt.Fprintln(os.Stdout)
	}
	if dash != nil {
		dash.Stop()
	}

	stats := metrics.Summarize(results, elapsed)

	// Persistence failures are logged but never mask the summary.
	if cfg.ReportFile != "" {
		if err := output.WriteReport(cfg.ReportFile, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: report not written: %v\n", err)
		}
	}
	if artifactRoot != "" {
		manifest := output.Manifest{
			RunID:       runID,
			CreatedAt:   start,
			TargetURL:   cfg.TargetURL,
			Iterations:  cfg.Iterations,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.Rate,
			PoolSize:    pool.Len(),
			Summary:     output.SummaryFromStats(stats),
		}
		if err := output.WriteManifest(filepath.Join(artifactRoot, "run.yaml"), manifest); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest not written: %v\n", err)
		}
	}

	if cfg.JSONOutput {
		if err := output.PrintJSONSummary(os.Stdout, stats); err != nil {
			return err
		}
	} else {
		output.PrintSummary(os.Stdout, stats)
	}

	return runErr
}

func buildPool(cfg *config.Config) (*creds.Pool, error) {
	if cfg.CredentialFile != "" {
		return creds.LoadFile(cfg.CredentialFile, cfg.CredentialFormat)
	}
	entries := make([]creds.Credential, 0, len(cfg.Credentials))
	for _, c := range cfg.Credentials {
		entries = append(entries, creds.Credential{Username: c.Username, Password: c.Password})
	}
	return creds.NewPool(entries)
}
