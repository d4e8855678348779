package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/accordmanpower/cmsapi/config"
)

type memoryBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
	ensured bool
}

func (m *memoryBackend) EnsureBucket(ctx context.Context) error {
	m.ensured = true
	return nil
}

func (m *memoryBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

func (m *memoryBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) Bucket() string { return "test-bucket" }

func TestStorageDelegatesToBackend(t *testing.T) {
	ctx := context.Background()
	backend := &memoryBackend{}
	s := NewStorage(backend)

	if err := s.EnsureBucket(ctx); err != nil || !backend.ensured {
		t.Fatalf("EnsureBucket: err=%v ensured=%v", err, backend.ensured)
	}
	if err := s.Put(ctx, "media/a.png", strings.NewReader("png"), 3, "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := s.Get(ctx, "media/a.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "png" {
		t.Fatalf("expected stored data, got %q", data)
	}

	if err := s.Delete(ctx, "media/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "media/a.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound after delete, got %v", err)
	}
	if s.Bucket() != "test-bucket" {
		t.Fatalf("unexpected bucket %q", s.Bucket())
	}
}

func TestOpenDisabledBackend(t *testing.T) {
	s, err := Open(context.Background(), config.StorageConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil storage when backend is empty")
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNewMinioClientRequiresSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
	}{
		{"missing endpoint", config.MinioConfig{AccessKey: "a", SecretKey: "b", Bucket: "c"}},
		{"missing keys", config.MinioConfig{Endpoint: "localhost:9000", Bucket: "c"}},
		{"missing bucket", config.MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMinioClient(tt.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
