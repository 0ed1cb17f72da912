package storage

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// ErrObjectNotFound is returned when the requested object does not exist
var ErrObjectNotFound = goerr.New("object not found")

// GCS stores document files in a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

var _ Service = &GCS{}

// NewGCS creates a GCS-backed storage service for the given bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("storage bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *GCS) Put(ctx context.Context, path string, r io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("path", path))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("path", path))
	}
	return nil
}

func (s *GCS) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("path", path))
	}
	return r, nil
}

func (s *GCS) Delete(ctx context.Context, path string) error {
	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", path))
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("path", path))
	}
	return nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
