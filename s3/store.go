// Package s3 implements docrag.ObjectStore on Amazon S3 and compatible services.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/fwojciec/docrag"
)

// Ensure Store implements docrag.ObjectStore at compile time.
var _ docrag.ObjectStore = (*Store)(nil)

// Client is the subset of the S3 API used by Store.
type Client interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds connection settings. Empty credentials fall back to the
// default AWS credential chain.
type Config struct {
	Region    string
	AccessKey string
	SecretKey string

	// Endpoint overrides the service URL for S3-compatible stores and
	// enables path-style addressing.
	Endpoint string
}

// Store is an object store over one bucket.
type Store struct {
	client Client
	bucket string
}

// NewStore creates a new Store.
func NewStore(client Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// New builds an S3 client from cfg and returns a Store for bucket.
func New(ctx context.Context, cfg Config, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, docrag.Errorf(docrag.ECONFIG, "S3 bucket required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, docrag.Errorf(docrag.ECONFIG, "S3 access key and secret must be set together")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewStore(client, bucket), nil
}

// List returns all keys starting with prefix, following continuation tokens.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Download writes the object to localPath, creating parent directories.
func (s *Store) Download(ctx context.Context, key, localPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return docrag.Errorf(docrag.ENOTFOUND, "object %q not found", key)
	} else if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := f.ReadFrom(out.Body); err != nil {
		f.Close()
		return fmt.Errorf("download s3://%s/%s: %w", s.bucket, key, err)
	}
	return f.Close()
}

// Upload puts localPath at key.
func (s *Store) Upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	}
	if filepath.Ext(key) == ".html" {
		input.ContentType = aws.String("text/html; charset=utf-8")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
