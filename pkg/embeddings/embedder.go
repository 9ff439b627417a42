// Package embeddings defines the text embedding contract the resolution
// pipeline consumes. Providers are black boxes: the screener only sees a
// name string in and a fixed-length vector out.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when embedding generation fails, including
// provider responses that carry an in-band error field.
var ErrEmbedding = errors.New("embedding failed")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
