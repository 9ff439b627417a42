// Package sqlite provides a SQLite-backed watchlist store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

// Store implements watchlist.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the watchlist database at dbPath.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", watchlist.ErrStore)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", watchlist.ErrStore, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			embedding BLOB NOT NULL,
			is_removed INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating records table: %v", watchlist.ErrStore, err)
	}

	return &Store{db: db}, nil
}

// LoadAll reads every record in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]watchlist.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, embedding, is_removed FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", watchlist.ErrStore, err)
	}
	defer rows.Close()

	var records []watchlist.Record
	for rows.Next() {
		var (
			rec     watchlist.Record
			blob    []byte
			removed int
		)
		if err := rows.Scan(&rec.Name, &rec.Category, &blob, &removed); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %v", watchlist.ErrStore, err)
		}
		rec.Embedding = decodeEmbedding(blob)
		rec.Removed = removed != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating records: %v", watchlist.ErrStore, err)
	}

	return records, nil
}

// Append persists new records after the existing ones, in one transaction.
func (s *Store) Append(ctx context.Context, records []watchlist.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", watchlist.ErrStore, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (name, category, embedding, is_removed) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: preparing insert: %v", watchlist.ErrStore, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		removed := 0
		if rec.Removed {
			removed = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.Name, rec.Category, encodeEmbedding(rec.Embedding), removed); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: inserting record %q: %v", watchlist.ErrStore, rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", watchlist.ErrStore, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeEmbedding packs a float32 vector into a little-endian blob.
func encodeEmbedding(embedding []float32) []byte {
	blob := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(f))
	}
	return blob
}

// decodeEmbedding unpacks a little-endian blob into a float32 vector.
func decodeEmbedding(blob []byte) []float32 {
	embedding := make([]float32, len(blob)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return embedding
}

var _ watchlist.Store = (*Store)(nil)
