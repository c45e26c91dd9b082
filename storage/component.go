package storage

import (
	"context"
	"fmt"

	"github.com/mitlibraries/carbon/component"
	"github.com/mitlibraries/carbon/logger"
)

// Component wraps Storage and implements component.Component for lifecycle management.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

// NewComponent creates a transfer sink component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage {
	return c.storage
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "sink" }

// Start builds the provider. Providers connect per upload, so nothing is
// dialed here.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the provider.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Describe returns a summary for the startup log.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s", c.cfg.Provider)
	switch c.cfg.Provider {
	case ProviderSFTP, ProviderFTPS:
		details += " " + c.cfg.Address()
	case ProviderS3:
		details += " bucket=" + c.cfg.Bucket
	case ProviderLocal:
		details += " base=" + c.cfg.BasePath
	}
	return component.Description{Name: "Transfer sink", Type: "storage", Details: details}
}
