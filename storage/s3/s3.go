// Package s3 delivers feeds to Amazon S3 or an S3-compatible service.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(context.Background(), cfg, log)
	})
}

// API is the part of the S3 client the sink uses.
type API interface {
	manager.UploadAPIClient
	HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
}

// Storage implements storage.Storage on S3. Uploads go through the
// multipart upload manager, which reads the stream in parts and never needs
// to seek or know its length.
type Storage struct {
	client   API
	uploader *manager.Uploader
	bucket   string
	log      *logger.Logger
}

// NewStorage creates an S3 sink from cfg.
func NewStorage(ctx context.Context, cfg storage.Config, log *logger.Logger) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewWithClient(awss3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, log), nil
}

// NewWithClient creates an S3 sink over an existing client.
func NewWithClient(client API, bucket string, log *logger.Logger) *Storage {
	if log == nil {
		log = logger.Nop()
	}
	return &Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		log:      log,
	}
}

// Name returns "s3".
func (s *Storage) Name() string { return storage.ProviderS3 }

// Upload streams reader to the object at key.
func (s *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	key = objectKey(key)
	_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String("application/xml"),
	})
	if err != nil {
		return storage.FromTransfer(fmt.Errorf("put %s: %w", key, err), s.Name())
	}

	s.log.Debug("Uploaded feed", map[string]interface{}{logger.FieldDestination: s.Location(key)})
	return nil
}

// Check confirms the bucket exists and the credentials can reach it.
func (s *Storage) Check(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	return nil
}

// Location returns an s3:// URL for key.
func (s *Storage) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey(key))
}

// objectKey drops the leading slash of an FTP-style path.
func objectKey(path string) string {
	return strings.TrimPrefix(path, "/")
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locator = (*Storage)(nil)
)
