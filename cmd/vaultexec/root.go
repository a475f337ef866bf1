package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonwraymond/vaultexec/auth"
	"github.com/jonwraymond/vaultexec/observe"
	"github.com/jonwraymond/vaultexec/vars"
	"github.com/jonwraymond/vaultexec/vault"
)

// envPrefix namespaces the variables that may stand in for flags.
const envPrefix = "VAULTEXEC"

// newRootCmd builds the command around runFn. Scalar settings come from
// flags first, then VAULTEXEC_<FLAG> variables, then defaults.
func newRootCmd(runFn func(context.Context, Config) error) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   name + " [flags] [--] command [args...]",
		Short: "Run a command with secrets from Vault in its environment",
		Long: `vaultexec resolves secret path expressions of the form
backend:args:path[#anchor] into environment variables, then replaces itself
with the given command. Structured values are flattened into one variable
per leaf, named PREFIX_KEY_0 and so on.

Backends:
  vault:role[,METHOD][,key=value...]:path[#/json/pointer]
  const:str:literal text
  const:js:{"json": "document"}`,
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd.Flags(), args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runFn(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	f := cmd.Flags()
	// Everything after the command belongs to the command.
	f.SetInterspersed(false)

	f.StringP(keyURL, "u", vault.DefaultAddress, "Vault server address")
	f.StringP(keyJWT, "j", "CI_JOB_JWT", "environment variable holding the login JWT")
	f.StringP(keyLoginPath, "l", vault.DefaultLoginPath, "JWT login endpoint")
	f.StringArrayP(keyVar, "v", nil, "variable NAME[=EXPR] to define (repeatable)")
	f.BoolP(keyImportAll, "a", false, "copy the ambient environment")
	f.BoolP(keyImportEx, "e", false, "resolve ambient variables holding secret expressions")
	f.StringArray(keyEnvFile, nil, "dotenv file appended to the ambient environment (repeatable)")
	f.Duration(keyTimeout, vault.DefaultTimeout, "timeout for each Vault request")
	f.Int(keyRetries, 1, "attempts per Vault request")
	f.String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	f.String(keyLogFormat, "json", "log format: json, console")
	f.String(keyTraceExporter, "none", "trace exporter: stdout, otlp, none")
	f.String(keyMetricsExporter, "none", "metrics exporter: stdout, otlp, none")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Binding only fails for a nil flag.
	_ = v.BindPFlags(f)

	return cmd
}

// Execute runs the root command. Errors are already reported on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(run)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(ctx)
}

// run materializes the environment and execs the command. It only returns
// on failure.
func run(ctx context.Context, cfg Config) (err error) {
	environ, err := loadEnviron(cfg.EnvFiles)
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.Observe())
	if err != nil {
		return err
	}
	logger := obs.Logger()
	flushed := false
	flush := func() {
		if !flushed {
			flushed = true
			shutdown(obs)
		}
	}
	defer func() {
		// Reached only when exec did not happen.
		if err != nil {
			logger.Error(ctx, "aborted, command not started", observe.F("error", err))
		}
		flush()
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	vcfg := cfg.Vault()
	vcfg.Logger = logger
	vcfg.Token = auth.CheckedTokenSource{
		Source: auth.EnvTokenSource{Name: cfg.JWTVar, Lookup: environ.Lookup},
		Leeway: 30 * time.Second,
	}
	client, err := vault.New(vcfg)
	if err != nil {
		return err
	}

	store := vars.NewStore(client,
		vars.WithEnviron(environ),
		vars.WithLogger(logger),
		vars.WithMiddleware(mw),
	)
	mode := cfg.ImportMode()
	if err := store.InsertVars(ctx, cfg.Vars, mode); err != nil {
		return err
	}

	path, err := exec.LookPath(cfg.Command[0])
	if err != nil {
		return err
	}
	logger.Info(ctx, "executing command",
		observe.F("command", path),
		observe.F("import_mode", mode.String()),
		observe.F("vars", store.Len()),
	)

	// Telemetry must be flushed before the process image is replaced.
	flush()
	return execve(path, cfg.Command, store.Environ())
}

// loadEnviron returns the process environment followed by the entries of
// each dotenv file, keys of one file sorted by name.
func loadEnviron(files []string) (vars.Environ, error) {
	environ := vars.OSEnviron()
	for _, file := range files {
		m, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("env file %s: %w", file, err)
		}
		for _, k := range slices.Sorted(maps.Keys(m)) {
			environ = append(environ, vars.EnvVar{Name: k, Value: m[k]})
		}
	}
	return environ, nil
}

func shutdown(obs observe.Observer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: telemetry shutdown: %v\n", name, err)
	}
}
