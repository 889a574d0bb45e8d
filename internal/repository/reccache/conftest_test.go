package reccache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/db"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
)

type mockRecommender struct {
	fingerprint string
	result      recommendation.Result
	err         error
	titleCalls  int
	kwCalls     int
	// during runs inside every query, e.g. to simulate a refit.
	during func(m *mockRecommender)
}

func (m *mockRecommender) ByTitle(_ context.Context, _ string, _ int) (recommendation.Result, error) {
	m.titleCalls++
	if m.during != nil {
		m.during(m)
	}
	return m.result, m.err
}

func (m *mockRecommender) ByKeywords(_ context.Context, _ string, _ int) (recommendation.Result, error) {
	m.kwCalls++
	if m.during != nil {
		m.during(m)
	}
	return m.result, m.err
}

func (m *mockRecommender) Fingerprint() string { return m.fingerprint }

// memStore is an in-memory store; getErr/setErr/delErr force failures.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	deleted []string
	getErr  error
	setErr  error
	delErr  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	delete(m.ttls, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func newTestCache(t *testing.T, inner *mockRecommender) (*CachedRecommender, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(inner, ms, Config{TTL: time.Minute}, nil, zap.NewNop()), ms
}
