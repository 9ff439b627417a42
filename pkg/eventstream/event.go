// Package eventstream publishes watchlist lifecycle events to an event
// stream backend so downstream consumers can react to reloads and appends.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeWatchlistUpdated is emitted after the watchlist is reloaded
	// or appended to.
	EventTypeWatchlistUpdated = "redlist.watchlist.updated"

	// ActionReload marks a wholesale watchlist replacement.
	ActionReload = "reload"

	// ActionAppend marks an incremental append.
	ActionAppend = "append"
)

// WatchlistUpdatedEvent is a transport-neutral event payload for a watchlist
// change.
type WatchlistUpdatedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Action is ActionReload or ActionAppend.
	Action string `json:"action"`

	// RecordCount is the number of records in the change set.
	RecordCount int `json:"record_count"`

	// TotalRecords is the watchlist size after the change.
	TotalRecords int `json:"total_records"`
}
