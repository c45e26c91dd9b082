// Package notify announces run starts and outcomes.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the phase of a run being announced.
type Status string

const (
	StatusStart   Status = "start"
	StatusSuccess Status = "success"
	StatusFailure Status = "fail"
)

// Subject is the subject line of every run notification.
const Subject = "Carbon run"

// timeLayout renders times the way the downstream alert parser expects.
const timeLayout = "2006-01-02T15:04:05.000000-07:00"

// Event is one run notification.
type Event struct {
	Status   Status
	FeedType string
	// Stage is the deployment stage, usually StageFromPath of the
	// remote feed path.
	Stage string
	Err   error
	Time  time.Time
}

// Notifier delivers run events.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Event) error { return nil }

// StageFromPath returns the first segment of a remote path:
// "/stage/people.xml" is "stage".
func StageFromPath(path string) string {
	return strings.SplitN(strings.TrimLeft(path, "/"), "/", 2)[0]
}

// Message renders the body of e.
func Message(e Event) string {
	ts := e.Time.UTC().Format(timeLayout)
	switch e.Status {
	case StatusStart:
		return fmt.Sprintf("[%s] Starting carbon run for the %s feed in the %s environment.", ts, e.FeedType, e.Stage)
	case StatusSuccess:
		return fmt.Sprintf("[%s] Finished carbon run for the %s feed in the %s environment.", ts, e.FeedType, e.Stage)
	}
	return fmt.Sprintf("[%s] The following problem was encountered during the carbon run for the %s feed in the %s environment: %v.",
		ts, e.FeedType, e.Stage, e.Err)
}
