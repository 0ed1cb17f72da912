package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-memory storage service for development and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ Service = &Memory{}

// NewMemory creates an empty in-memory storage service.
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
	}
}

func (s *Memory) Put(ctx context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return goerr.Wrap(err, "failed to read object body", goerr.V("path", path))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *Memory) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.objects[path]
	if !exists {
		return nil, goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", path))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Memory) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[path]; !exists {
		return goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", path))
	}
	delete(s.objects, path)
	return nil
}

func (s *Memory) Close() error {
	return nil
}
