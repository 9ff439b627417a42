// Package index provides an in-memory approximate nearest-neighbor index
// over watchlist embeddings, backed by an HNSW graph with a parallel record
// list.
package index

import (
	"fmt"

	"github.com/coder/hnsw"

	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

// Index maps 0-based positional ids to watchlist records. Graph key i always
// refers to records[i]; the two only ever change together, by a full rebuild
// or a paired insert.
//
// Index is not safe for concurrent use; callers serialize access.
type Index struct {
	graph   *hnsw.Graph[int]
	records []watchlist.Record
	dim     int
}

// New creates an empty index over dim-dimensional embeddings.
func New(dim int) *Index {
	graph := hnsw.NewGraph[int]()
	graph.Distance = hnsw.CosineDistance

	return &Index{
		graph: graph,
		dim:   dim,
	}
}

// Build creates a fresh index and inserts every record in the given order,
// assigning ids 0..n-1. Used on wholesale watchlist replacement.
func Build(dim int, records []watchlist.Record) *Index {
	ix := New(dim)
	for _, rec := range records {
		ix.Insert(rec)
	}
	return ix
}

// Insert assigns the record the next sequential id and adds its embedding to
// the graph. Panics when the embedding dimension does not match the index:
// that is a data-integrity defect, not a normal-path condition.
func (ix *Index) Insert(rec watchlist.Record) {
	if len(rec.Embedding) != ix.dim {
		panic(fmt.Sprintf("index: embedding length %d != dimension %d for %q",
			len(rec.Embedding), ix.dim, rec.Name))
	}

	id := len(ix.records)
	ix.graph.Add(hnsw.MakeNode(id, rec.Embedding))
	ix.records = append(ix.records, rec)
}

// Search returns up to k non-removed records ordered by ascending approximate
// cosine distance. Tombstoned records are filtered after retrieval, so they
// still occupy top-k slots and may displace other candidates. Panics when the
// query dimension does not match the index.
func (ix *Index) Search(query []float32, k int) []watchlist.Record {
	if len(query) != ix.dim {
		panic(fmt.Sprintf("index: query length %d != dimension %d", len(query), ix.dim))
	}

	if len(ix.records) == 0 {
		return nil
	}

	neighbors := ix.graph.Search(query, k)

	results := make([]watchlist.Record, 0, len(neighbors))
	for _, n := range neighbors {
		rec := ix.records[n.Key]
		if rec.Removed {
			continue
		}
		results = append(results, rec)
	}
	return results
}

// Len reports the number of records in the index, tombstones included.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Dim reports the configured embedding dimension.
func (ix *Index) Dim() int {
	return ix.dim
}
