package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/mitlibraries/carbon/logger"
)

// SNSAPI is the part of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes events to an SNS topic.
type SNSNotifier struct {
	client SNSAPI
	topic  string
	log    *logger.Logger
	now    func() time.Time
}

// NewSNSNotifier returns a notifier publishing to topicARN through client.
func NewSNSNotifier(client SNSAPI, topicARN string, log *logger.Logger) *SNSNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &SNSNotifier{client: client, topic: topicARN, log: log.WithComponent("notify"), now: time.Now}
}

// Notify publishes e. A zero e.Time is stamped with the current time.
func (n *SNSNotifier) Notify(ctx context.Context, e Event) error {
	if e.Time.IsZero() {
		e.Time = n.now()
	}
	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topic),
		Subject:  aws.String(Subject),
		Message:  aws.String(Message(e)),
	})
	if err != nil {
		return fmt.Errorf("notify: publish %s: %w", e.Status, err)
	}
	n.log.Debug("notification published", logger.Fields(
		logger.FieldStatus, string(e.Status),
		"message_id", aws.ToString(out.MessageId),
	))
	return nil
}

// Config selects and configures the notifier.
type Config struct {
	// TopicARN is the SNS topic. Notifications are off when empty.
	TopicARN string `yaml:"topic_arn" mapstructure:"topic_arn"`
	Region   string `yaml:"region" mapstructure:"region"`
	Disabled bool   `yaml:"disabled" mapstructure:"disabled"`
}

// Enabled reports whether notifications should be sent.
func (c Config) Enabled() bool {
	return !c.Disabled && c.TopicARN != ""
}

// New returns an SNS notifier for cfg, or Nop when notifications are off.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Notifier, error) {
	if !cfg.Enabled() {
		return Nop{}, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}
	return NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.TopicARN, log), nil
}
