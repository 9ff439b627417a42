package testutils

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pressroom-tools/redlist/pkg/extract"
)

// MockExtractor is a test extractor returning scripted entities.
type MockExtractor struct {
	Entities []extract.Entity

	// FailFirst makes the first n Extract calls fail, to exercise retry
	// behavior.
	FailFirst int

	// FailAlways causes every Extract call to return an error.
	FailAlways bool

	// Calls counts Extract invocations.
	Calls atomic.Int32
}

func NewMockExtractor(entities ...extract.Entity) *MockExtractor {
	return &MockExtractor{Entities: entities}
}

func (m *MockExtractor) Extract(_ context.Context, _ string) ([]extract.Entity, error) {
	call := m.Calls.Add(1)

	if m.FailAlways || int(call) <= m.FailFirst {
		return nil, fmt.Errorf("mock extraction failure on call %d", call)
	}

	return m.Entities, nil
}

func (m *MockExtractor) Close() error {
	return nil
}
