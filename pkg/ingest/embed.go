package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressroom-tools/redlist/pkg/embeddings"
	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

const defaultNumWorkers = 3

// EmbedAll turns spreadsheet items into watchlist records under the given
// category, embedding names concurrently with a bounded worker pool. Output
// order matches input order. Any embedding failure fails the whole run.
func EmbedAll(
	ctx context.Context,
	embedder embeddings.Embedder,
	items []Item,
	category string,
	numWorkers int,
	logger *slog.Logger,
) ([]watchlist.Record, error) {
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}

	records := make([]watchlist.Record, len(items))
	errs := make([]error, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for range numWorkers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := items[i]

				embedding, err := embedder.Embed(ctx, item.Name)
				if err != nil {
					errs[i] = err
					continue
				}

				records[i] = watchlist.Record{
					Name:      item.Name,
					Category:  category,
					Embedding: embedding,
					Removed:   item.Removed,
				}

				logger.Debug("name embedded",
					"name", item.Name,
					"dimensions", len(embedding),
				)
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("embedding %q: %w", items[i].Name, err)
		}
	}

	return records, nil
}
