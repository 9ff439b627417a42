// Package watchlist defines the screened-name record model and the durable
// store interface used to seed and refresh it.
package watchlist

// Record is a single watchlist entry. Records are immutable once created;
// the watchlist as a whole is either fully replaced or grown by appending.
type Record struct {
	// Name is the registry name exactly as listed, including any quoted
	// aliases (e.g. `Иванов Иван "Псевдоним"`).
	Name string

	// Category is the classification label the record was loaded under
	// (e.g. "sanctioned", "removed-list").
	Category string

	// Embedding is the fixed-dimension vector representation of Name.
	Embedding []float32

	// Removed marks a logical tombstone. Removed records stay searchable
	// but are flagged in output and excluded from positive matches.
	Removed bool
}
