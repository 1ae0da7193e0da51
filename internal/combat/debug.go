package combat

import "sync/atomic"

// debugLoggingEnabled gates hot-path debug logs of the attack sequencer.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for the combat subsystem.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
