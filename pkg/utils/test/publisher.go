package testutils

import (
	"context"
	"sync"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
)

// MockPublisher records published watchlist events.
type MockPublisher struct {
	mu     sync.Mutex
	events []eventstream.WatchlistUpdatedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishWatchlistUpdate(_ context.Context, event *eventstream.WatchlistUpdatedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockPublisher) Events() []eventstream.WatchlistUpdatedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]eventstream.WatchlistUpdatedEvent, len(m.events))
	copy(out, m.events)
	return out
}
