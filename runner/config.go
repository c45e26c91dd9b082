package runner

import (
	"fmt"

	"github.com/mitlibraries/carbon/config"
	"github.com/mitlibraries/carbon/database"
	"github.com/mitlibraries/carbon/feed"
	"github.com/mitlibraries/carbon/notify"
	"github.com/mitlibraries/carbon/observability"
	"github.com/mitlibraries/carbon/storage"
	"github.com/mitlibraries/carbon/validation"
)

// Secret environment variables holding a JSON object whose keys are
// expanded into individual variables before binding.
const (
	WarehouseSecretEnv = "DATAWAREHOUSE_CLOUDCONNECTOR_JSON"
	TransferSecretEnv  = "SYMPLECTIC_FTP_JSON"
)

// EnvAliases maps the deployment's environment variable names onto config
// keys.
var EnvAliases = map[string]string{
	"CONNECTION_STRING":   "database.dsn",
	"SYMPLECTIC_FTP_HOST": "transfer.host",
	"SYMPLECTIC_FTP_PORT": "transfer.port",
	"SYMPLECTIC_FTP_USER": "transfer.user",
	"SYMPLECTIC_FTP_PASS": "transfer.password",
	"SYMPLECTIC_FTP_PATH": "transfer.path",
	"SNS_TOPIC":           "notify.topic_arn",
	"LOG_LEVEL":           "logging.level",
}

// Config is the configuration of one carbon run.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	FeedType string `yaml:"feed_type" mapstructure:"feed_type" validate:"required,oneof=people articles"`

	// OutputFile writes the feed to a local file instead of the transfer
	// sink.
	OutputFile string `yaml:"output_file" mapstructure:"output_file"`

	// RunConnectionTests checks the warehouse and the sink and stops.
	RunConnectionTests bool `yaml:"run_connection_tests" mapstructure:"run_connection_tests"`

	// IgnoreSNSLogging turns run notifications off.
	IgnoreSNSLogging bool `yaml:"ignore_sns_logging" mapstructure:"ignore_sns_logging"`

	SentryDSN string `yaml:"sentry_dsn" mapstructure:"sentry_dsn"`

	// Workspace names the deployment for error reports.
	Workspace string `yaml:"workspace" mapstructure:"workspace"`

	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Transfer      storage.Config       `yaml:"transfer" mapstructure:"transfer"`
	Notify        notify.Config        `yaml:"notify" mapstructure:"notify"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Load reads the run configuration from path (optional), .env files and
// the environment.
func Load(path string, cfg *Config) error {
	opts := []config.LoaderOption{
		config.WithJSONEnv(WarehouseSecretEnv, TransferSecretEnv),
		config.WithEnvAliases(EnvAliases),
	}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	return config.LoadConfig("carbon", cfg, opts...)
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "carbon"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Transfer.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.IgnoreSNSLogging {
		c.Notify.Disabled = true
	}
}

// Validate checks the configuration. The transfer settings are only
// required when the feed goes to the sink.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	if err := c.Database.Validate(); err != nil {
		v.AddError("database", err.Error())
	}
	if c.ToSink() {
		if err := c.Transfer.Validate(); err != nil {
			v.AddError("transfer", err.Error())
		}
	}
	if err := c.Observability.Validate(); err != nil {
		v.AddError("observability", err.Error())
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ToSink reports whether the feed is delivered to the transfer sink.
func (c *Config) ToSink() bool {
	return c.OutputFile == ""
}

// Kind returns the configured feed kind.
func (c *Config) Kind() (feed.Kind, error) {
	k, err := feed.ParseKind(c.FeedType)
	if err != nil {
		return "", fmt.Errorf("runner: %w", err)
	}
	return k, nil
}

// Stage names the deployment stage in notifications: the first segment of
// the remote feed path, or the environment when there is none.
func (c *Config) Stage() string {
	if s := notify.StageFromPath(c.Transfer.Path); s != "" {
		return s
	}
	return c.Environment
}
