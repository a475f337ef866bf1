package main

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jonwraymond/vaultexec/observe"
	"github.com/jonwraymond/vaultexec/vars"
	"github.com/jonwraymond/vaultexec/vault"
)

// Configuration errors.
var (
	ErrNoCommand      = errors.New("vaultexec: a command is required")
	ErrInvalidURL     = errors.New("vaultexec: invalid vault url")
	ErrNoJWTVar       = errors.New("vaultexec: jwt variable name is required")
	ErrInvalidTimeout = errors.New("vaultexec: timeout must be positive")
	ErrInvalidRetries = errors.New("vaultexec: retries must be at least 1")
)

// Viper keys, also the long flag names.
const (
	keyURL             = "url"
	keyJWT             = "jwt"
	keyLoginPath       = "login-path"
	keyVar             = "var"
	keyImportAll       = "import-all"
	keyImportEx        = "import-ex"
	keyEnvFile         = "env-file"
	keyTimeout         = "timeout"
	keyRetries         = "retries"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyTraceExporter   = "trace-exporter"
	keyMetricsExporter = "metrics-exporter"
)

// Config is the resolved command line.
type Config struct {
	URL       string
	JWTVar    string
	LoginPath string

	Vars      []string
	ImportAll bool
	ImportEx  bool
	EnvFiles  []string

	Timeout time.Duration
	Retries int

	LogLevel        string
	LogFormat       string
	TraceExporter   string
	MetricsExporter string

	// Command is the program to exec followed by its arguments.
	Command []string
}

// loadConfig reads scalar settings from v, where flags and VAULTEXEC_*
// variables are already bound. Repeatable flags are read from flags
// directly: viper splits list values at commas, which expressions contain.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, command []string) (Config, error) {
	defs, err := flags.GetStringArray(keyVar)
	if err != nil {
		return Config{}, err
	}
	files, err := flags.GetStringArray(keyEnvFile)
	if err != nil {
		return Config{}, err
	}

	return Config{
		URL:             v.GetString(keyURL),
		JWTVar:          v.GetString(keyJWT),
		LoginPath:       v.GetString(keyLoginPath),
		Vars:            defs,
		ImportAll:       v.GetBool(keyImportAll),
		ImportEx:        v.GetBool(keyImportEx),
		EnvFiles:        files,
		Timeout:         v.GetDuration(keyTimeout),
		Retries:         v.GetInt(keyRetries),
		LogLevel:        v.GetString(keyLogLevel),
		LogFormat:       v.GetString(keyLogFormat),
		TraceExporter:   v.GetString(keyTraceExporter),
		MetricsExporter: v.GetString(keyMetricsExporter),
		Command:         command,
	}, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return ErrNoCommand
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.URL)
	}

	if c.JWTVar == "" {
		return ErrNoJWTVar
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w, got: %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.Retries < 1 {
		return fmt.Errorf("%w, got: %d", ErrInvalidRetries, c.Retries)
	}

	obs := c.Observe()
	return obs.Validate()
}

// ImportMode derives the ambient import mode from the two switches.
func (c *Config) ImportMode() vars.ImportMode {
	return vars.ImportModeFromFlags(c.ImportAll, c.ImportEx)
}

// Observe returns the telemetry configuration.
func (c *Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: name,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(c.TraceExporter),
			Exporter:  c.TraceExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(c.MetricsExporter),
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
			Format:  c.LogFormat,
		},
	}
}

// Vault returns the client configuration without a token source.
func (c *Config) Vault() vault.Config {
	return vault.Config{
		Address:   c.URL,
		LoginPath: c.LoginPath,
		Timeout:   c.Timeout,
		Attempts:  c.Retries,
	}
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}
