package storage

import (
	"errors"
	"fmt"
	"time"
)

// Provider constants for supported transfer backends.
const (
	ProviderLocal = "local"
	ProviderSFTP  = "sftp"
	ProviderFTPS  = "ftps"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultProvider = ProviderSFTP
	DefaultTimeout  = "30s"
	DefaultRegion   = "us-east-1"
	DefaultBasePath = "."
)

// Config holds transfer configuration for every provider. Each provider
// reads the fields it needs.
type Config struct {
	// Provider selects the backend: "sftp", "ftps", "s3" or "local".
	Provider string `mapstructure:"provider" json:"provider"`

	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"-"`

	// Path is where the feed is written on the endpoint (the S3 key for s3).
	Path string `mapstructure:"path" json:"path"`

	// Timeout bounds connecting and each network operation, e.g. "30s".
	Timeout string `mapstructure:"timeout" json:"timeout"`

	// HostKey pins the sftp server key, in authorized_keys format.
	HostKey string `mapstructure:"host_key" json:"host_key"`

	// TLS enables explicit TLS for ftps.
	TLS                bool `mapstructure:"tls" json:"tls"`
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify"`

	// BasePath is the root directory for the local provider.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	Bucket         string `mapstructure:"bucket" json:"bucket"`
	Region         string `mapstructure:"region" json:"region"`
	Endpoint       string `mapstructure:"endpoint" json:"endpoint"`
	AccessKey      string `mapstructure:"access_key" json:"access_key"`
	SecretKey      string `mapstructure:"secret_key" json:"-"`
	ForcePathStyle bool   `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.Port == 0 {
		switch c.Provider {
		case ProviderSFTP:
			c.Port = 22
		case ProviderFTPS:
			c.Port = 21
		}
	}
	if c.Provider == ProviderFTPS && !c.TLS {
		c.TLS = true
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate checks that the configuration is complete for the selected provider.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("storage: invalid timeout %q: %w", c.Timeout, err)
	}

	var errs []error
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			errs = append(errs, errors.New("storage: base_path is required for local provider"))
		}
	case ProviderSFTP, ProviderFTPS:
		if c.Host == "" {
			errs = append(errs, fmt.Errorf("storage: host is required for %s provider", c.Provider))
		}
		if c.User == "" {
			errs = append(errs, fmt.Errorf("storage: user is required for %s provider", c.Provider))
		}
		if c.Port < 1 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("storage: port %d is out of range", c.Port))
		}
	case ProviderS3:
		if c.Bucket == "" {
			errs = append(errs, errors.New("storage: bucket is required for s3 provider"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("storage: region is required for s3 provider"))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if len(errs) > 0 {
		return fmt.Errorf("storage: invalid %s config: %w", c.Provider, errors.Join(errs...))
	}
	return nil
}

// TimeoutDuration returns the parsed Timeout, or the default when unparseable.
func (c *Config) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultTimeout)
	return d
}

// Address returns host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
