// Package observe provides the logging, tracing and metrics used while
// secrets are resolved.
//
// Logging is backed by zap. Tracing and metrics are OpenTelemetry; the
// exporters write to an injected writer (stderr in the CLI) because the
// process stdout belongs to the command that is eventually executed.
// Nothing in this package ever records a secret value: resolution is
// described by backend, path and prefix only.
package observe
