package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Sink stores an encoded export under name and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// FileSink writes exports into a local directory.
type FileSink struct {
	Dir string
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Put writes data to Dir/name with mode 0600, creating Dir if needed.
func (s *FileSink) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if err := os.MkdirAll(s.Dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// S3Config configures an S3Sink.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Sink uploads exports to an S3-compatible bucket. The bucket is created
// on the first Put when it does not exist.
type S3Sink struct {
	client *minio.Client
	bucket string
	region string

	once      sync.Once
	bucketErr error
}

// NewS3Sink creates the minio client. It does not contact the server.
func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &S3Sink{client: cli, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.once.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketErr = fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
			return
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				s.bucketErr = fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
			}
		}
	})
	return s.bucketErr
}

// Put uploads data as object name and returns its s3:// location.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}
