package component

import "context"

// Component represents a lifecycle-managed infrastructure component.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes the component. It must not move any feed data.
	Start(ctx context.Context) error

	// Stop releases the component's resources.
	Stop(ctx context.Context) error
}

// Description holds summary information logged when a run starts.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "database", "storage".
	Type string
	// Details is a one-liner such as "sqlite :memory:" or "sftp ftp.example.com:22".
	Details string
}

// Describable is optionally implemented by Components to report what they
// are and how they are configured.
type Describable interface {
	Describe() Description
}
