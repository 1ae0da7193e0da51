package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of the orchestrator.
// Checked on the hot path instead of the slog level.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for the AI subsystem.
// Called once from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("tick", "controllers", n)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
