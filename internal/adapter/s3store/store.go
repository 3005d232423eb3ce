// Package s3store implements the weather event store on Amazon S3 or any
// S3-compatible object store.
package s3store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
)

// Options configures the S3 client.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; enables path-style addressing
	AccessKeyID     string // optional; the default credential chain is used when empty
	SecretAccessKey string
}

// Store lists and reads event objects from one bucket.
// It implements weather.ObjectStore.
type Store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// New builds an S3 client from opts. Transport retries and timeouts are the
// SDK defaults.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", domain.ErrConfiguration)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", domain.ErrConfiguration, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: opts.Bucket, logger: logger}, nil
}

// List returns at most maxKeys objects under prefix. Only the first page is
// read; the scan budget makes further pages pointless.
func (s *Store) List(ctx context.Context, prefix string, maxKeys int) ([]domain.ObjectInfo, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(maxKeys)), //nolint:gosec // bounded by config
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, prefix, err)
	}

	objs := make([]domain.ObjectInfo, 0, len(out.Contents))
	for _, o := range out.Contents {
		info := domain.ObjectInfo{Key: aws.ToString(o.Key)}
		if o.LastModified != nil {
			info.LastModified = *o.LastModified
		}
		objs = append(objs, info)
	}
	s.logger.Debug("listed partition", "prefix", prefix, "objects", len(objs))
	return objs, nil
}

// Get opens the object body. The caller must close it.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}
