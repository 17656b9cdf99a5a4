package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	defaultUsernameSelector = `input[name="username"]`
	defaultPasswordSelector = `input[name="password"]`
	defaultSubmitSelector   = `button[type="submit"]`
	defaultTimeout          = 60 * time.Second
)

// ChromeOptions configure the browser login flow.
type ChromeOptions struct {
	TargetURL        string
	UsernameSelector string        // login form username input
	PasswordSelector string        // login form password input
	SubmitSelector   string        // login form submit control
	SuccessSelector  string        // element that must appear once logged in
	SuccessURLPart   string        // substring the landing URL must contain
	Timeout          time.Duration // per-attempt deadline
	Headless         bool
	ChromePath       string // explicit browser binary, empty for default
}

func (o *ChromeOptions) normalize() {
	if o.UsernameSelector == "" {
		o.UsernameSelector = defaultUsernameSelector
	}
	if o.PasswordSelector == "" {
		o.PasswordSelector = defaultPasswordSelector
	}
	if o.SubmitSelector == "" {
		o.SubmitSelector = defaultSubmitSelector
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
}

// Chrome drives login sessions through a headless browser. One exec
// allocator is shared by the whole run; every Login gets its own browser
// context so sessions never share cookies.
type Chrome struct {
	opt         ChromeOptions
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChrome builds the shared allocator. Close must be called after the run.
func NewChrome(opt ChromeOptions) (*Chrome, error) {
	if strings.TrimSpace(opt.TargetURL) == "" {
		return nil, fmt.Errorf("target URL is required")
	}
	opt.normalize()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1366, 900),
	}
	if opt.Headless {
		allocOpts = append(allocOpts, chromedp.Headless)
	}
	if opt.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opt.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &Chrome{opt: opt, allocCtx: allocCtx, allocCancel: allocCancel}, nil
}

// Login performs one full login flow: navigate, fill the form, submit, and
// verify the landing state. The returned Timing brackets the whole flow.
func (c *Chrome) Login(ctx context.Context, attempt Attempt) (Timing, error) {
	timing := Timing{Start: time.Now()}

	browserCtx, cancelBrowser := chromedp.NewContext(c.allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, c.opt.Timeout)
	defer cancelRun()

	// Propagate run-level cancellation into the browser context.
	stop := context.AfterFunc(ctx, cancelRun)
	defer stop()

	actions := []chromedp.Action{
		chromedp.Navigate(c.opt.TargetURL),
		chromedp.WaitVisible(c.opt.UsernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(c.opt.UsernameSelector, attempt.Credential.Username, chromedp.ByQuery),
		chromedp.SendKeys(c.opt.PasswordSelector, attempt.Credential.Password, chromedp.ByQuery),
		chromedp.Click(c.opt.SubmitSelector, chromedp.ByQuery),
	}
	if c.opt.SuccessSelector != "" {
		actions = append(actions, chromedp.WaitVisible(c.opt.SuccessSelector, chromedp.ByQuery))
	}

	if err := chromedp.Run(runCtx, actions...); err != nil {
		c.capture(runCtx, attempt)
		return timing, describeFailure(err)
	}

	if c.opt.SuccessURLPart != "" {
		var location string
		if err := chromedp.Run(runCtx, chromedp.Location(&location)); err != nil {
			return timing, describeFailure(err)
		}
		if !strings.Contains(location, c.opt.SuccessURLPart) {
			c.capture(runCtx, attempt)
			return timing, fmt.Errorf("ended on wrong page: %s", location)
		}
	}

	timing.Finish = time.Now()
	c.capture(runCtx, attempt)
	return timing, nil
}

// capture writes a full-page screenshot into the attempt's artifact
// directory. Best effort: with no directory configured it does nothing, and
// a capture error never changes the session outcome.
func (c *Chrome) capture(ctx context.Context, attempt Attempt) {
	if attempt.ArtifactDir == "" {
		return
	}
	var buf []byte
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	}))
	if err != nil || len(buf) == 0 {
		return
	}
	if err := os.MkdirAll(attempt.ArtifactDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(attempt.ArtifactDir, "final.png"), buf, 0o644)
}

// Close tears down the shared allocator and every browser it spawned.
func (c *Chrome) Close() error {
	c.allocCancel()
	return nil
}

// describeFailure rewrites chromedp errors into the operator-facing phrasing
// used in reports.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("navigation timeout: %w", err)
	case strings.Contains(err.Error(), "could not find node"),
		strings.Contains(err.Error(), "waiting for selector"):
		return fmt.Errorf("missing form control: %w", err)
	default:
		return err
	}
}
