package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the client built for s3:// URIs.
type S3Options struct {
	Region string `mapstructure:"region"`
	// Endpoint overrides the S3 endpoint, e.g. LocalStack or MinIO.
	Endpoint string `mapstructure:"endpoint"`
}

// Resolver maps paths and s3:// URIs to stores. The S3 client is created on
// first use so purely local runs never load AWS configuration.
type Resolver struct {
	opts   S3Options
	client *s3.Client
}

func NewResolver(opts S3Options) *Resolver {
	return &Resolver{opts: opts}
}

// WithClient returns a resolver that uses client for every s3:// URI.
func WithClient(client *s3.Client) *Resolver {
	return &Resolver{client: client}
}

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key, bucket != ""
}

// ReadFile returns the content addressed by uri.
func (r *Resolver) ReadFile(ctx context.Context, uri string) ([]byte, error) {
	if bucket, key, ok := ParseS3URI(uri); ok {
		client, err := r.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, bucket, "").Get(ctx, key)
	}
	return NewLocalStore(filepath.Dir(uri)).Get(ctx, filepath.Base(uri))
}

// Dir returns a store rooted at the directory or bucket prefix uri.
func (r *Resolver) Dir(ctx context.Context, uri string) (BlobStore, error) {
	if bucket, prefix, ok := ParseS3URI(uri); ok {
		client, err := r.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, bucket, strings.Trim(prefix, "/")), nil
	}
	return NewLocalStore(uri), nil
}

func (r *Resolver) s3Client(ctx context.Context) (*s3.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if r.opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(r.opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	r.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if r.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(r.opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return r.client, nil
}
