package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to an S3-compatible bucket (AWS, MinIO, R2).
type S3Store struct {
	client  objectPutter
	bucket  string
	baseURL string
	logger  *slog.Logger
}

var _ ImageStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from configuration. Static credentials are
// used when both keys are set; otherwise the default AWS chain applies.
func NewS3Store(ctx context.Context, cfg config.MediaConfig, l *slog.Logger) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}

	return newS3Store(s3.NewFromConfig(awsConfig, clientOpts...), cfg.Bucket, baseURL, l), nil
}

func newS3Store(client objectPutter, bucket, baseURL string, l *slog.Logger) *S3Store {
	if l == nil {
		l = slog.Default()
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		logger:  l.With("component", "s3_media"),
	}
}

// Save implements ImageStore.
func (s *S3Store) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        io.LimitReader(r, MaxImageSize),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).
			ErrorContext(ctx, "failed to upload image", "error", redact.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return joinURL(s.baseURL, key), nil
}
