package testutils

import (
	"context"
	"fmt"
)

// MockFetcher is a test document fetcher backed by a map.
type MockFetcher struct {
	Texts map[string]string
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Texts: make(map[string]string)}
}

func (m *MockFetcher) FetchText(_ context.Context, documentID string) (string, error) {
	text, ok := m.Texts[documentID]
	if !ok {
		return "", fmt.Errorf("mock fetcher has no document: %s", documentID)
	}
	return text, nil
}

func (m *MockFetcher) Close() error {
	return nil
}
