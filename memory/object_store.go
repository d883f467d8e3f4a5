package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig locates the document in an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
	Secure    bool
}

// ObjectStore keeps the document as one JSON object. The bucket is created
// on first use; a failed check is retried on the next call.
type ObjectStore struct {
	client *minio.Client
	bucket string
	key    string

	mu    sync.Mutex
	ready bool
}

func NewObjectStore(cfg ObjectStoreConfig) (*ObjectStore, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("object store: bucket and key are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	return &ObjectStore{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	s.ready = true
	return nil
}

func (s *ObjectStore) Load(ctx context.Context) (*Document, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr(err)
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return decode(b)
}

func (s *ObjectStore) Save(ctx context.Context, doc *Document) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	b, err := doc.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.key, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *ObjectStore) Delete(ctx context.Context) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *ObjectStore) mapErr(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("get %s/%s: %w", s.bucket, s.key, err)
}
