package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/authdrill/authdrill/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		TargetURL:   "http://target.test/login",
		Iterations:  10,
		Concurrency: 2,
		Timeout:     time.Minute,
		Credentials: []config.Credential{{Username: "alice", Password: "pw"}},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"blank target", func(c *config.Config) { c.TargetURL = "  " }, "target"},
		{"zero iterations", func(c *config.Config) { c.Iterations = 0 }, "iterations"},
		{"negative iterations", func(c *config.Config) { c.Iterations = -3 }, "iterations"},
		{"zero concurrency", func(c *config.Config) { c.Concurrency = 0 }, "concurrency"},
		{"negative rate", func(c *config.Config) { c.Rate = -1 }, "rate"},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, "timeout"},
		{"no credentials", func(c *config.Config) {
			c.Credentials = nil
			c.CredentialFile = ""
		}, "credentials"},
		{"empty inline username", func(c *config.Config) {
			c.Credentials = []config.Credential{{Password: "pw"}}
		}, "username"},
		{"bad credential format", func(c *config.Config) { c.CredentialFormat = "xml" }, "credential_format"},
		{"bad sample rate", func(c *config.Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestValidateAllowsCredentialFileOnly(t *testing.T) {
	cfg := validConfig()
	cfg.Credentials = nil
	cfg.CredentialFile = "users.csv"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
