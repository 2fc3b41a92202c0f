package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

type Store struct {
	client *minio.Client
	region string
}

// New buat koneksi MinIO dan memastikan the given buckets exist. Bucket
// creation is idempotent, so restarts are safe; it runs before the HTTP
// surface comes up.
func New(ctx context.Context, endpoint, region, accessKey, secretKey string, useSSL bool, buckets ...string) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	s := &Store{client: cli, region: region}
	for _, bucket := range buckets {
		if err := s.ensureBucket(ctx, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	return nil
}

// Put implementasi BlobStore: store one payload under (bucket, key).
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (domain.BlobRef, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.BlobRef{}, err
	}
	return domain.BlobRef{Bucket: bucket, Key: key}, nil
}

// SignedURL generates a presigned GET URL. Buckets are private, so this is
// the only retrieval path handed to clients.
func (s *Store) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Fetch reads a stored payload back, used to hand image bytes to the
// inference and explanation gateways.
func (s *Store) Fetch(ctx context.Context, ref domain.BlobRef) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, ref.Bucket, ref.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// HealthCheck pings the endpoint by listing one of the known buckets.
func (s *Store) HealthCheck(ctx context.Context, bucket string) error {
	_, err := s.client.BucketExists(ctx, bucket)
	return err
}
