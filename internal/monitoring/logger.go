package monitoring

import "log"

// Logf is the package-level diagnostic logger used by the solvers and the
// demo harness. It defaults to log.Printf but may be replaced by SetLogger.
// Tests or embedding applications can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// debugEnabled gates Debugf. Solver diagnostics (non-convergence,
// rank-deficient solves) are noisy in tight loops so they are off by default.
var debugEnabled bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug enables or disables Debugf output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// DebugEnabled reports whether Debugf currently emits anything.
func DebugEnabled() bool {
	return debugEnabled
}

// Debugf forwards to Logf when debug output is enabled.
func Debugf(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	Logf("[debug] "+format, v...)
}
