// Package config loads and validates the run configuration from a config
// file and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Credential is an inline username/password pair from the config file.
type Credential struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// TracingConfig controls the optional OTLP trace export.
type TracingConfig struct {
	Enable      bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether trace export is requested.
func (t TracingConfig) Enabled() bool { return t.Enable }

// Config is the full run configuration.
type Config struct {
	TargetURL   string        `mapstructure:"target"`
	Iterations  int           `mapstructure:"iterations"`
	Concurrency int           `mapstructure:"concurrency"`
	Rate        int           `mapstructure:"rate"`
	Timeout     time.Duration `mapstructure:"timeout"`

	CredentialFile   string       `mapstructure:"credential_file"`
	CredentialFormat string       `mapstructure:"credential_format"`
	Credentials      []Credential `mapstructure:"credentials"`
	Seed             int64        `mapstructure:"seed"`

	UsernameSelector string `mapstructure:"username_selector"`
	PasswordSelector string `mapstructure:"password_selector"`
	SubmitSelector   string `mapstructure:"submit_selector"`
	SuccessSelector  string `mapstructure:"success_selector"`
	SuccessURLPart   string `mapstructure:"success_url"`
	Headless         bool   `mapstructure:"headless"`
	ChromePath       string `mapstructure:"chrome_path"`

	ReportFile  string        `mapstructure:"report"`
	ArtifactDir string        `mapstructure:"artifact_dir"`
	Screenshots bool          `mapstructure:"screenshots"`
	Grace       time.Duration `mapstructure:"grace"`

	JSONOutput bool          `mapstructure:"json_output"`
	Dashboard  bool          `mapstructure:"dashboard"`
	LogErrors  bool          `mapstructure:"log_errors"`
	Tracing    TracingConfig `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`
}

// Validate checks the fatal configuration errors. A config that fails here
// never dispatches a single session.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetURL) == "" {
		return fmt.Errorf("target URL is required")
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %d", c.Rate)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.CredentialFile == "" && len(c.Credentials) == 0 {
		return fmt.Errorf("no credentials configured: set credential_file or an inline credentials list")
	}
	for i, cred := range c.Credentials {
		if cred.Username == "" {
			return fmt.Errorf("inline credential %d has an empty username", i)
		}
	}
	if f := c.CredentialFormat; f != "" && f != "csv" && f != "json" {
		return fmt.Errorf("credential_format must be \"csv\" or \"json\", got %q", f)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing sample_rate must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}
	return nil
}
