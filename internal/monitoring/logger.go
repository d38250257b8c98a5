// Package monitoring carries the process-wide diagnostic logger used by the
// analysis service and tools.
package monitoring

import "log"

// Logf writes one diagnostic line. It defaults to log.Printf; tests and
// embedding callers may redirect or mute it via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
