package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MockObjectStore is an in-memory implementation of ObjectStore for testing
// and for running the local server without AWS.
type MockObjectStore struct {
	mu     sync.RWMutex
	bucket string
	files  map[string]*mockFile

	// FailOn makes the named operation ("Open", "Copy", "Delete", "PresignPut") fail with this error
	FailOn map[string]error
}

type mockFile struct {
	data         []byte
	metadata     map[string]string
	contentType  string
	lastModified time.Time
}

// NewMockObjectStore creates a new MockObjectStore instance
func NewMockObjectStore(bucket string) *MockObjectStore {
	if bucket == "" {
		bucket = "mock-bucket"
	}
	return &MockObjectStore{
		bucket: bucket,
		files:  make(map[string]*mockFile),
		FailOn: make(map[string]error),
	}
}

var _ ObjectStore = (*MockObjectStore)(nil)

func (m *MockObjectStore) failure(op, key string) error {
	if err, ok := m.FailOn[op]; ok && err != nil {
		return NewStorageError(op, key, err)
	}
	return nil
}

// StoreOptions describes an object seeded into the mock
type StoreOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Store seeds an object under key, replacing any existing object. It stands in
// for a client upload through a presigned URL.
func (m *MockObjectStore) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if key == "" {
		return NewStorageError("Store", key, ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contentType := "application/octet-stream"
	if opts != nil && opts.ContentType != "" {
		contentType = opts.ContentType
	} else if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		contentType = ct
	}

	var metadata map[string]string
	if opts != nil && opts.Metadata != nil {
		metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			metadata[k] = v
		}
	}

	m.files[key] = &mockFile{
		data:         append([]byte(nil), data...),
		metadata:     metadata,
		contentType:  contentType,
		lastModified: time.Now(),
	}
	return nil
}

// Open implements ObjectStore.Open
func (m *MockObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := m.read("Open", key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockObjectStore) read(op, key string) ([]byte, error) {
	if key == "" {
		return nil, NewStorageError(op, key, ErrInvalidKey)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(op, key); err != nil {
		return nil, err
	}

	file, exists := m.files[key]
	if !exists {
		return nil, NewStorageError(op, key, ErrFileNotFound)
	}
	return append([]byte(nil), file.data...), nil
}

// Delete implements ObjectStore.Delete. Deleting a missing key succeeds, as on S3.
func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return NewStorageError("Delete", key, ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("Delete", key); err != nil {
		return err
	}

	delete(m.files, key)
	return nil
}

// Copy implements ObjectStore.Copy
func (m *MockObjectStore) Copy(ctx context.Context, srcKey, destKey string) error {
	if srcKey == "" || destKey == "" {
		return NewStorageError("Copy", srcKey, ErrInvalidKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("Copy", srcKey); err != nil {
		return err
	}

	src, exists := m.files[srcKey]
	if !exists {
		return NewStorageError("Copy", srcKey, ErrFileNotFound)
	}

	copied := *src
	copied.data = append([]byte(nil), src.data...)
	copied.lastModified = time.Now()
	m.files[destKey] = &copied
	return nil
}

// PresignPut implements ObjectStore.PresignPut with a fake but parseable URL
func (m *MockObjectStore) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", NewStorageError("PresignPut", key, ErrInvalidKey)
	}
	if err := m.failure("PresignPut", key); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("X-Amz-Expires", fmt.Sprintf("%d", int(expiry.Seconds())))
	query.Set("Content-Type", contentType)

	u := url.URL{
		Scheme:   "https",
		Host:     m.bucket + ".s3.mock.local",
		Path:     "/" + key,
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}

// Close implements ObjectStore.Close
func (m *MockObjectStore) Close() error {
	return nil
}

// Keys returns all stored keys in sorted order
func (m *MockObjectStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.files))
	for key := range m.files {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HasFile checks if a key is present
func (m *MockObjectStore) HasFile(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}

// Reset clears all stored files and injected failures
func (m *MockObjectStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string]*mockFile)
	m.FailOn = make(map[string]error)
}
