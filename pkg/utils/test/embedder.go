package testutils

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockEmbedder is a test embedder that returns predictable embeddings.
// Lookup keys must match the exact text the caller embeds (for the
// screener, the Cyrillic-stripped name).
type MockEmbedder struct {
	Embeddings map[string][]float32

	// Default is returned for any text without an entry in Embeddings.
	// When nil, unknown texts fail.
	Default []float32

	// FailAlways causes every Embed call to return an error.
	FailAlways bool

	// Calls counts Embed invocations.
	Calls atomic.Int32
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls.Add(1)

	if m.FailAlways {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	if m.Default != nil {
		return m.Default, nil
	}

	return nil, fmt.Errorf("mock embedder has no embedding for: %s", text)
}

func (m *MockEmbedder) Close() error {
	return nil
}
