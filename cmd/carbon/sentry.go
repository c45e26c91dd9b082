package main

import (
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 5 * time.Second

// sentryReporter sends run failures to Sentry. The zero value reports
// nothing.
type sentryReporter struct {
	enabled bool
}

// newSentryReporter initializes Sentry when dsn is set and is not "none".
// It returns the reporter and a line describing the outcome for the log.
func newSentryReporter(dsn, env, release string) (*sentryReporter, string) {
	if dsn == "" || strings.EqualFold(dsn, "none") {
		return &sentryReporter{}, "No Sentry DSN found, exceptions will not be sent to Sentry"
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	})
	if err != nil {
		return &sentryReporter{}, "Sentry initialization failed, exceptions will not be sent to Sentry: " + err.Error()
	}
	return &sentryReporter{enabled: true}, "Sentry DSN found, exceptions will be sent to Sentry with env=" + env
}

// Capture reports err.
func (r *sentryReporter) Capture(err error) {
	if r.enabled && err != nil {
		sentry.CaptureException(err)
	}
}

// Flush waits for queued reports to be sent.
func (r *sentryReporter) Flush() {
	if r.enabled {
		sentry.Flush(sentryFlushTimeout)
	}
}
