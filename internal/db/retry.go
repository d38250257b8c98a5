package db

import (
	"strings"
	"time"
)

const (
	maxRetries     = 5
	baseRetryDelay = 10 * time.Millisecond
)

// isSQLiteBusy reports whether err is a transient SQLITE_BUSY condition.
// modernc.org/sqlite surfaces these as plain errors, so match on the text.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy runs fn, retrying with exponential backoff while it returns a
// busy error. Other errors fail immediately.
func retryOnBusy(fn func() error) error {
	var err error
	delay := baseRetryDelay
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		err = fn()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
	}
	return err
}
