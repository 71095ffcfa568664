package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/hecms/internal/entity"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDispatch(ctx context.Context, d entity.Dispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// memStore is a plain map store for tests that do not inject failures.
type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, key string) ([]byte, error) {
	b, ok := s.blobs[key]
	if !ok {
		return nil, entity.ErrBlobNotFound
	}
	return b, nil
}

func (s *memStore) Save(_ context.Context, key string, data []byte) error {
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// sequentialIDs returns "1", "2", ... like a fresh counter.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprint(n)
	}
}

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }
