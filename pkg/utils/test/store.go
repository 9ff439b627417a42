package testutils

import (
	"context"
	"sync"

	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

// MockStore is an in-memory watchlist store.
type MockStore struct {
	mu      sync.Mutex
	records []watchlist.Record
}

func NewMockStore(records ...watchlist.Record) *MockStore {
	return &MockStore{records: records}
}

func (m *MockStore) LoadAll(_ context.Context) ([]watchlist.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]watchlist.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MockStore) Append(_ context.Context, records []watchlist.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, records...)
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

var _ watchlist.Store = (*MockStore)(nil)
