package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/authdrill/authdrill/internal/shutdown"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional config file into a
// Config. Flags set explicitly on the command line win over file settings.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfg := defaults()
	cfg.ConfigFile = configPath

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.CredentialFile = strings.TrimSpace(cfg.CredentialFile)
	cfg.CredentialFormat = strings.ToLower(strings.TrimSpace(cfg.CredentialFormat))

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Iterations:  1,
		Concurrency: 1,
		Timeout:     60 * time.Second,
		Headless:    true,
		Grace:       shutdown.DefaultGrace,
	}
}
