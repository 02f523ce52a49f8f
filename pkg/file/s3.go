package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client defines the S3 operations used by S3Storage, kept narrow so tests
// can substitute a mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config contains configuration for S3 storage.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`         // Optional: for S3-compatible services
	BaseURL        string `env:"S3_BASE_URL"`         // Public URL base for serving files
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}

// S3Storage implements Storage for Amazon S3 and S3-compatible services.
// It is safe for concurrent use.
type S3Storage struct {
	client  S3Client
	bucket  string
	baseURL string
}

// NewS3Storage creates an S3-backed storage from config. A custom client can
// be supplied for testing via WithS3Client.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}

	options := s3Options{}
	for _, opt := range opts {
		opt(&options)
	}

	client := options.client
	if client == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}

		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// S3Option configures S3Storage construction.
type S3Option func(*s3Options)

type s3Options struct {
	client S3Client
}

// WithS3Client sets a custom pre-configured S3 client, useful for tests.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.client = client }
}

func (s *S3Storage) Save(ctx context.Context, path string, r io.Reader, contentType string) (*File, error) {
	key := strings.TrimPrefix(path, "/")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}); err != nil {
		return nil, errors.Join(ErrFailedToSaveFile, err)
	}

	return &File{
		Filename:     key[strings.LastIndexByte(key, '/')+1:],
		MIMEType:     contentType,
		RelativePath: key,
		URL:          s.URL(key),
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key := strings.TrimPrefix(path, "/")

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, path string) bool {
	key := strings.TrimPrefix(path, "/")

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		// NotFound is the expected miss; anything else (auth, network) is
		// also treated as absent since callers only probe before overwrite.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return false
		}
		return false
	}
	return true
}

func (s *S3Storage) URL(path string) string {
	key := strings.TrimPrefix(path, "/")
	if s.baseURL != "" {
		return s.baseURL + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
