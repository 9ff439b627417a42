// Package screening implements the entity-resolution engine: it drives
// entity extraction, embedding retrieval, ANN candidate search, distance
// fusion and per-category deduplication into a warning/accepted decision for
// every entity in a document.
package screening

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pressroom-tools/redlist/pkg/embeddings"
	"github.com/pressroom-tools/redlist/pkg/extract"
	"github.com/pressroom-tools/redlist/pkg/fetch"
	"github.com/pressroom-tools/redlist/pkg/index"
	"github.com/pressroom-tools/redlist/pkg/namedist"
	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

const (
	// matchThreshold is the minimum exact cosine similarity for a candidate
	// to count toward a confirmed match.
	matchThreshold = 0.61

	// maxFusedDistance is the maximum fused name distance for a confirmed
	// match.
	maxFusedDistance = 7

	// diagThreshold and diagMaxDistance relax the bars for the full-data
	// diagnostic pass, capturing a best-effort nearest record below the
	// confirmation bar.
	diagThreshold   = 0.0
	diagMaxDistance = 100

	// topK is the ANN retrieval window per entity.
	topK = 5

	extractAttempts = 3
	extractBackoff  = 30 * time.Millisecond

	embedAttempts = 3
	embedBackoff  = time.Second
)

// Config holds the collaborators and parameters for a Screener.
type Config struct {
	// Dimensions is the embedding dimension the index is built over.
	Dimensions int

	// Embedder turns a name into a vector. Required.
	Embedder embeddings.Embedder

	// Extractor extracts entities from text. Required.
	Extractor extract.Extractor

	// Fetcher resolves document ids to text. Optional; without it
	// ResolveDocument returns an error.
	Fetcher fetch.Fetcher

	// Comparer is the person-name comparer. Defaults to
	// namedist.NewPersonComparer().
	Comparer namedist.NameComparer

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// Screener holds the mutable watchlist snapshot and ANN index and resolves
// documents against them. Safe for concurrent use: resolutions take read
// locks per index access, mutations hold the write lock for the whole
// rebuild or insert loop.
type Screener struct {
	mu      sync.RWMutex
	records []watchlist.Record
	index   *index.Index

	dim       int
	embedder  embeddings.Embedder
	extractor extract.Extractor
	fetcher   fetch.Fetcher
	comparer  namedist.NameComparer
	logger    *slog.Logger
}

// New builds a Screener and its index from the given watchlist.
func New(cfg Config, records []watchlist.Record) (*Screener, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("screening: dimensions must be positive")
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("screening: embedder is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("screening: extractor is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("screening: logger is required")
	}

	comparer := cfg.Comparer
	if comparer == nil {
		comparer = namedist.NewPersonComparer()
	}

	cfg.Logger.Info("building watchlist index",
		"records", len(records),
		"dimensions", cfg.Dimensions,
	)

	return &Screener{
		records:   records,
		index:     index.Build(cfg.Dimensions, records),
		dim:       cfg.Dimensions,
		embedder:  cfg.Embedder,
		extractor: cfg.Extractor,
		fetcher:   cfg.Fetcher,
		comparer:  comparer,
		logger:    cfg.Logger,
	}, nil
}

// ResolveDocument fetches the document's text and resolves it.
func (s *Screener) ResolveDocument(ctx context.Context, documentID string, fullData bool) (*Result, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("screening: no document fetcher configured")
	}

	text, err := s.fetcher.FetchText(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return s.ResolveText(ctx, text, fullData)
}

// ResolveText screens the text and classifies every extracted entity as a
// warning (confirmed watchlist match) or accepted. Entities are resolved
// concurrently but reported in extraction order. With fullData set, accepted
// entries for embeddable names carry best-effort diagnostic docs.
//
// A terminal upstream failure for any single entity aborts the whole call.
func (s *Screener) ResolveText(ctx context.Context, text string, fullData bool) (*Result, error) {
	entities, err := s.extractEntities(ctx, text)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("entities extracted", "count", len(entities))

	type outcome struct {
		warning  *EntityResolution
		accepted *EntityResolution
		err      error
	}

	outcomes := make([]outcome, len(entities))

	var wg sync.WaitGroup
	wg.Add(len(entities))
	for i, entity := range entities {
		go func(i int, entity extract.Entity) {
			defer wg.Done()
			warning, accepted, err := s.resolveEntity(ctx, entity, fullData)
			outcomes[i] = outcome{warning: warning, accepted: accepted, err: err}
		}(i, entity)
	}
	wg.Wait()

	result := &Result{}
	for _, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		if o.warning != nil {
			result.Warnings = append(result.Warnings, *o.warning)
		}
		if o.accepted != nil {
			result.Accepted = append(result.Accepted, *o.accepted)
		}
	}

	return result, nil
}

// ReplaceAll rebuilds the index from newRecords wholesale, discarding the
// previous one. In-flight searches block for the duration of the rebuild.
func (s *Screener) ReplaceAll(newRecords []watchlist.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("rebuilding watchlist index", "records", len(newRecords))
	s.index = index.Build(s.dim, newRecords)
}

// Append extends the watchlist snapshot and incrementally inserts the new
// records into the existing index, without a rebuild.
func (s *Screener) Append(newRecords []watchlist.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("appending watchlist records", "records", len(newRecords))
	s.records = append(s.records, newRecords...)
	for _, rec := range newRecords {
		s.index.Insert(rec)
	}
}

// Size reports the number of indexed records, tombstones included.
func (s *Screener) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// resolveEntity applies the per-entity decision ladder.
func (s *Screener) resolveEntity(ctx context.Context, entity extract.Entity, fullData bool) (warning, accepted *EntityResolution, err error) {
	if entity.Type != extract.TypePerson && entity.Type != extract.TypeOrganization {
		return nil, unscored(entity), nil
	}

	resolution, err := s.classify(ctx, entity, matchThreshold, maxFusedDistance)
	if err != nil {
		return nil, nil, err
	}
	if resolution != nil {
		return resolution, nil, nil
	}

	if namedist.KeepCyrillicAndDot(entity.Name) == "" {
		// Unembeddable (pure Latin/symbol) form: fall back to a substring
		// scan over the raw watchlist.
		if hit := s.substringScan(entity); hit != nil {
			return hit, nil, nil
		}
		return nil, unscored(entity), nil
	}

	if fullData {
		// Below-the-bar diagnostic pass: nearest record regardless of the
		// confirmation thresholds, reported as accepted.
		diagnostic, err := s.classify(ctx, entity, diagThreshold, diagMaxDistance)
		if err != nil {
			return nil, nil, err
		}
		if diagnostic != nil {
			return nil, diagnostic, nil
		}
	}

	return nil, unscored(entity), nil
}

// classify embeds the entity's name, retrieves the top-k neighbors and fuses
// the distance signals into a match decision. A nil resolution means no
// match.
func (s *Screener) classify(ctx context.Context, entity extract.Entity, threshold float32, maxDistance int) (*EntityResolution, error) {
	name := namedist.KeepCyrillicAndDot(entity.Name)
	if name == "" {
		return nil, nil
	}

	embedding, err := s.fetchEmbedding(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates := s.nearest(embedding, topK, threshold)
	if len(candidates) == 0 {
		return nil, nil
	}

	entityName := strings.ToLower(entity.Name)
	entityNormName := strings.ToLower(entity.NormName)

	var docs []MatchDoc
	for _, cand := range candidates {
		candName := strings.ToLower(cand.record.Name)

		normDistance := namedist.TokenSetDistance(entityNormName, candName)
		rawDistance := namedist.TokenSetDistance(entityName, candName)

		breakdown := &DistanceBreakdown{
			RawNameDistance:        rawDistance,
			NormalizedNameDistance: normDistance,
		}

		if entity.Type == extract.TypePerson && strings.Contains(entity.Name, ".") {
			// The text names the person by initials; fold the
			// surname+initials distance into both signals.
			personDistance := s.comparer.Compare(entityName, candName)
			breakdown.PersonNameDistance = &personDistance
			normDistance = min(normDistance, personDistance)
			rawDistance = min(rawDistance, personDistance)
		}

		fused := min(normDistance, rawDistance)
		if fused > maxDistance {
			continue
		}

		docs = append(docs, MatchDoc{
			Name:       cand.record.Name,
			Category:   cand.record.Category,
			Removed:    cand.record.Removed,
			Similarity: cand.similarity,
			Distance:   fused,
			Distances:  breakdown,
		})
	}

	if len(docs) == 0 {
		return nil, nil
	}

	return &EntityResolution{
		Name:     entity.Name,
		NormName: entity.NormName,
		Context:  entity.Context,
		Type:     entity.Type,
		Docs:     dedupeByCategory(docs),
	}, nil
}

// nearest searches the index for the top-k approximate neighbors and keeps
// those whose exact cosine similarity clears the threshold, sorted by
// descending similarity.
func (s *Screener) nearest(embedding []float32, k int, threshold float32) []candidateMatch {
	s.mu.RLock()
	neighbors := s.index.Search(embedding, k)
	s.mu.RUnlock()

	matches := make([]candidateMatch, 0, len(neighbors))
	for _, rec := range neighbors {
		sim := namedist.Cosine(embedding, rec.Embedding)
		if sim >= threshold {
			matches = append(matches, candidateMatch{record: rec, similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// substringScan is the fallback for names the embedding provider cannot
// handle: a case-insensitive substring match over every watchlist name,
// emitting synthetic exact docs.
func (s *Screener) substringScan(entity extract.Entity) *EntityResolution {
	needle := strings.ToLower(entity.Name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []MatchDoc
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.Name), needle) {
			docs = append(docs, MatchDoc{
				Name:       rec.Name,
				Category:   rec.Category,
				Removed:    rec.Removed,
				Similarity: 1.0,
				Distance:   0,
			})
		}
	}

	if len(docs) == 0 {
		return nil
	}

	return &EntityResolution{
		Name:     entity.Name,
		NormName: entity.NormName,
		Context:  entity.Context,
		Type:     entity.Type,
		Docs:     dedupeByCategory(docs),
	}
}

// dedupeByCategory keeps only the lowest-distance doc per category; ties go
// to the first-encountered doc.
func dedupeByCategory(docs []MatchDoc) []MatchDoc {
	grouped := make(map[string][]MatchDoc)
	for _, doc := range docs {
		grouped[doc.Category] = append(grouped[doc.Category], doc)
	}

	result := make([]MatchDoc, 0, len(grouped))
	for _, group := range grouped {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Distance < group[j].Distance
		})
		result = append(result, group[0])
	}
	return result
}

// fetchEmbedding retries the embedding provider with fixed backoff. A
// response carrying an in-band error field counts as a retryable failure.
func (s *Screener) fetchEmbedding(ctx context.Context, name string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < embedAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(embedBackoff)
		}

		embedding, err := s.embedder.Embed(ctx, name)
		if err == nil {
			return embedding, nil
		}
		lastErr = err
		s.logger.Warn("embedding attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}

// extractEntities retries the extractor with fixed backoff; a terminal
// failure is fatal for the whole document call.
func (s *Screener) extractEntities(ctx context.Context, text string) ([]extract.Entity, error) {
	var lastErr error
	for attempt := 0; attempt < extractAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(extractBackoff)
		}

		entities, err := s.extractor.Extract(ctx, text)
		if err == nil {
			return entities, nil
		}
		lastErr = err
		s.logger.Warn("entity extraction attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}

// unscored builds an accepted resolution with empty docs.
func unscored(entity extract.Entity) *EntityResolution {
	return &EntityResolution{
		Name:     entity.Name,
		NormName: entity.NormName,
		Context:  entity.Context,
		Type:     entity.Type,
	}
}
