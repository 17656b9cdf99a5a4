// Package dashboard renders a live terminal view of a running load test.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/authdrill/authdrill/internal/metrics"
)

const maxRecentFailures = 50

// RunConfig holds the run parameters shown in the header.
type RunConfig struct {
	TargetURL   string
	Iterations  int
	Concurrency int
	Rate        int
}

// Dashboard renders live session counters. It also implements the
// scheduler's Observer interface to collect recent failure messages; counting
// itself stays in the tracker.
type Dashboard struct {
	tracker      *metrics.Tracker
	cfg          RunConfig
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup

	mu      sync.Mutex
	recent  []string
	history []float64

	grid         *ui.Grid
	summaryPara  *widgets.Paragraph
	doneGauge    *widgets.Gauge
	countsPara   *widgets.Paragraph
	runningSpark *widgets.SparklineGroup
	failureList  *widgets.List

	startTime time.Time
}

// New creates a Dashboard. The shutdownFunc is invoked when the user quits
// the view with q or Ctrl-C.
func New(tracker *metrics.Tracker, cfg RunConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		tracker:      tracker,
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		startTime:    time.Now(),
	}
	d.initWidgets()
	d.setupGrid()
	return d, nil
}

// TaskStarted implements the scheduler Observer. Counts live in the tracker.
func (d *Dashboard) TaskStarted(int) {}

// TaskFinished records failed sessions for the failure list.
func (d *Dashboard) TaskFinished(index int, err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	d.recent = append(d.recent, fmt.Sprintf("[%s] task %d: %v", time.Now().Format("15:04:05"), index, err))
	if len(d.recent) > maxRecentFailures {
		d.recent = d.recent[1:]
	}
	d.mu.Unlock()
}

// TaskSkipped implements the scheduler Observer.
func (d *Dashboard) TaskSkipped(int) {}

func (d *Dashboard) initWidgets() {
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run"
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.doneGauge = widgets.NewGauge()
	d.doneGauge.Title = "Completed Sessions"
	d.doneGauge.Percent = 0
	d.doneGauge.BarColor = ui.ColorBlue
	d.doneGauge.BorderStyle.Fg = ui.ColorCyan
	d.doneGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.countsPara = widgets.NewParagraph()
	d.countsPara.Title = "Sessions"
	d.countsPara.BorderStyle.Fg = ui.ColorCyan

	spark := widgets.NewSparkline()
	spark.Title = "In flight"
	spark.LineColor = ui.ColorGreen
	spark.Data = []float64{0}
	d.runningSpark = widgets.NewSparklineGroup(spark)
	d.runningSpark.Title = "Sessions In Flight"
	d.runningSpark.BorderStyle.Fg = ui.ColorCyan

	d.failureList = widgets.NewList()
	d.failureList.Title = "Recent Failures"
	d.failureList.Rows = []string{"No failures"}
	d.failureList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.failureList.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)
	d.grid.Set(
		ui.NewRow(0.16,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.16,
			ui.NewCol(1.0, d.doneGauge),
		),
		ui.NewRow(0.3,
			ui.NewCol(0.5, d.countsPara),
			ui.NewCol(0.5, d.runningSpark),
		),
		ui.NewRow(0.38,
			ui.NewCol(1.0, d.failureList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}
			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Wait for Stop() to cancel the context.
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

// update refreshes all widget data from the tracker.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.tracker.Snapshot()
	elapsed := time.Since(d.startTime)

	d.history = append(d.history, float64(snap.Running))
	if len(d.history) > 100 {
		d.history = d.history[1:]
	}
	d.runningSpark.Sparklines[0].Data = d.history
	d.runningSpark.Title = fmt.Sprintf("Sessions In Flight: %d (cap %d)", snap.Running, d.cfg.Concurrency)

	percent := 0
	if d.cfg.Iterations > 0 {
		percent = int(snap.Done() * 100 / int64(d.cfg.Iterations))
	}
	if percent > 100 {
		percent = 100
	}
	d.doneGauge.Percent = percent
	d.doneGauge.Label = fmt.Sprintf("%d / %d", snap.Done(), d.cfg.Iterations)

	rateLine := "unlimited"
	if d.cfg.Rate > 0 {
		rateLine = fmt.Sprintf("%d/s", d.cfg.Rate)
	}
	d.summaryPara.Text = fmt.Sprintf(
		"Target: %s\nSessions: %d | Concurrency: %d | Admission rate: %s\nElapsed: %s   (q to quit)",
		d.cfg.TargetURL,
		d.cfg.Iterations,
		d.cfg.Concurrency,
		rateLine,
		elapsed.Round(time.Second),
	)

	rate := 0.0
	if snap.Done() > 0 {
		rate = float64(snap.Succeeded) / float64(snap.Succeeded+snap.Failed+snap.Skipped) * 100
	}
	d.countsPara.Text = fmt.Sprintf(
		"Started:     %d\nRunning:     %d\nSuccessful:  %d\nFailed:      %d\nNot run:     %d\nSuccess:     %.1f%%",
		snap.Started,
		snap.Running,
		snap.Succeeded,
		snap.Failed,
		snap.Skipped,
		rate,
	)

	if len(d.recent) > 0 {
		rows := make([]string, len(d.recent))
		copy(rows, d.recent)
		d.failureList.Rows = rows
		d.failureList.ScrollBottom()
	}
}

func (d *Dashboard) render() {
	ui.Render(d.grid)
}
