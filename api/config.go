// Package api provides the HTTP API for screening documents and managing
// the watchlist.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g. ":8080")
	ListenAddr string

	// FullData, when set, includes low-confidence diagnostic entries in
	// responses by default. Individual requests can override it with the
	// full_data query parameter.
	FullData bool
}
