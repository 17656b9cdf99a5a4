package config

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authdrill",
		Short:         "Drive simulated browser login sessions against a target endpoint",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Core run flags
	flags.String("target", "", "Login page URL to load test")
	flags.IntP("iterations", "n", 1, "Total login sessions to run")
	flags.IntP("concurrency", "c", 1, "Maximum sessions in flight")
	flags.Int("rate", 0, "Session admissions per second (0 = unlimited)")
	flags.Duration("timeout", 0, "Per-session deadline")

	// Credential flags
	flags.String("credentials", "", "Path to credential file (CSV or JSON)")
	flags.String("credential-format", "", "Credential file format: csv or json (default: by extension)")
	flags.Int64("seed", 0, "Seed for credential selection (0 = time-based)")

	// Browser flags
	flags.String("username-selector", "", "CSS selector of the username input")
	flags.String("password-selector", "", "CSS selector of the password input")
	flags.String("submit-selector", "", "CSS selector of the submit control")
	flags.String("success-selector", "", "CSS selector that must appear once logged in")
	flags.String("success-url", "", "Substring the post-login URL must contain")
	flags.Bool("headless", true, "Run the browser headless")
	flags.String("chrome-path", "", "Path to the browser binary")

	// Output flags
	flags.StringP("report", "o", "", "Path for the per-session CSV report")
	flags.String("artifact-dir", "", "Directory for run artifacts (screenshots, manifest)")
	flags.Bool("screenshots", false, "Capture a screenshot at the end of each session")
	flags.Duration("grace", 0, "Shutdown grace period after an interrupt")
	flags.Bool("json", false, "Print the summary as JSON")
	flags.Bool("dashboard", false, "Show the live terminal dashboard")
	flags.Bool("log-errors", false, "Log each session failure to stderr")

	// Config file
	flags.String("config", "", "Path to a YAML/JSON config file")
	flags.BoolP("help", "h", false, "Show usage")
}

// applyFlagOverrides copies explicitly set flags over file-sourced settings.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("target", func() error { v, e := flags.GetString("target"); cfg.TargetURL = v; return e })
	set("iterations", func() error { v, e := flags.GetInt("iterations"); cfg.Iterations = v; return e })
	set("concurrency", func() error { v, e := flags.GetInt("concurrency"); cfg.Concurrency = v; return e })
	set("rate", func() error { v, e := flags.GetInt("rate"); cfg.Rate = v; return e })
	set("timeout", func() error { v, e := flags.GetDuration("timeout"); cfg.Timeout = v; return e })
	set("credentials", func() error { v, e := flags.GetString("credentials"); cfg.CredentialFile = v; return e })
	set("credential-format", func() error { v, e := flags.GetString("credential-format"); cfg.CredentialFormat = v; return e })
	set("seed", func() error { v, e := flags.GetInt64("seed"); cfg.Seed = v; return e })
	set("username-selector", func() error { v, e := flags.GetString("username-selector"); cfg.UsernameSelector = v; return e })
	set("password-selector", func() error { v, e := flags.GetString("password-selector"); cfg.PasswordSelector = v; return e })
	set("submit-selector", func() error { v, e := flags.GetString("submit-selector"); cfg.SubmitSelector = v; return e })
	set("success-selector", func() error { v, e := flags.GetString("success-selector"); cfg.SuccessSelector = v; return e })
	set("success-url", func() error { v, e := flags.GetString("success-url"); cfg.SuccessURLPart = v; return e })
	set("headless", func() error { v, e := flags.GetBool("headless"); cfg.Headless = v; return e })
	set("chrome-path", func() error { v, e := flags.GetString("chrome-path"); cfg.ChromePath = v; return e })
	set("report", func() error { v, e := flags.GetString("report"); cfg.ReportFile = v; return e })
	set("artifact-dir", func() error { v, e := flags.GetString("artifact-dir"); cfg.ArtifactDir = v; return e })
	set("screenshots", func() error { v, e := flags.GetBool("screenshots"); cfg.Screenshots = v; return e })
	set("grace", func() error { v, e := flags.GetDuration("grace"); cfg.Grace = v; return e })
	set("json", func() error { v, e := flags.GetBool("json"); cfg.JSONOutput = v; return e })
	set("dashboard", func() error { v, e := flags.GetBool("dashboard"); cfg.Dashboard = v; return e })
	set("log-errors", func() error { v, e := flags.GetBool("log-errors"); cfg.LogErrors = v; return e })

	return err
}

func displayHelp(cmd *cobra.Command) {
	cmd.SetOut(os.Stdout)
	_ = cmd.Usage()
}
