package watchlist

import (
	"context"
	"errors"
)

// ErrStore is returned when the backing record store fails.
var ErrStore = errors.New("watchlist store failed")

// Store is the durable record table behind the in-memory watchlist.
// Implementations must support bulk load at startup and append at runtime;
// single-record deletion is deliberately absent (tombstones via Record.Removed).
type Store interface {
	// LoadAll reads every record in insertion order.
	LoadAll(ctx context.Context) ([]Record, error)

	// Append persists new records after the existing ones.
	Append(ctx context.Context, records []Record) error

	// Close releases any resources held by the store.
	Close() error
}
