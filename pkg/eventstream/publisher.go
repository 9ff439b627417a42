package eventstream

import "context"

// Publisher publishes watchlist events to an event stream backend.
type Publisher interface {
	PublishWatchlistUpdate(ctx context.Context, event *WatchlistUpdatedEvent) error
	Close() error
}
