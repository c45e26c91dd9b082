package testutil

import (
	"context"

	"github.com/mitlibraries/carbon/component"
)

// TestComponent extends component.Component with a way to return to a
// clean state between test cases, so one warehouse or sink can serve a
// whole table of cases.
type TestComponent interface {
	component.Component

	// Reset discards everything written since Start.
	Reset(ctx context.Context) error
}
