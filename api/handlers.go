package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
	"github.com/pressroom-tools/redlist/pkg/screening"
	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

// Resolve calls get an outer retry on top of the screener's own upstream
// retries, as a last line of resilience before surfacing an error.
const (
	resolveAttempts = 4
	resolveBackoff  = time.Second
)

// CheckRequest is the body of POST /check. FullData, when present, overrides
// the server default; the full_data query parameter overrides both.
type CheckRequest struct {
	Text     string `json:"text"`
	FullData *bool  `json:"full_data"`
}

// RecordPayload is one watchlist record on the wire.
type RecordPayload struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Embedding []float32 `json:"embedding"`
	Removed   bool      `json:"is_removed"`
}

// AddRecordsRequest is the body of POST /records.
type AddRecordsRequest struct {
	Records []RecordPayload `json:"records"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleCheckText screens raw text supplied in the request body.
func (s *Server) handleCheckText(c *fiber.Ctx) error {
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "text is required"})
	}

	fullData := s.config.FullData
	if req.FullData != nil {
		fullData = *req.FullData
	}
	fullData = c.QueryBool("full_data", fullData)

	result, err := s.resolveWithRetry(c.Context(), func(ctx context.Context) (*screening.Result, error) {
		return s.screener.ResolveText(ctx, req.Text, fullData)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(result)
}

// handleCheckDocument screens a document by id, fetching its text first.
func (s *Server) handleCheckDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id parameter required"})
	}

	fullData := c.QueryBool("full_data", s.config.FullData)

	result, err := s.resolveWithRetry(c.Context(), func(ctx context.Context) (*screening.Result, error) {
		return s.screener.ResolveDocument(ctx, id, fullData)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(result)
}

// handleUpdate reloads the watchlist from the store and rebuilds the index.
func (s *Server) handleUpdate(c *fiber.Ctx) error {
	records, err := s.store.LoadAll(c.Context())
	if err != nil {
		s.logger.Error("watchlist reload failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	s.screener.ReplaceAll(records)
	s.publishUpdate(c.Context(), eventstream.ActionReload, len(records))

	return c.JSON(fiber.Map{"records": len(records)})
}

// handleAddRecords appends new records to the store and the live index.
func (s *Server) handleAddRecords(c *fiber.Ctx) error {
	var req AddRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "records are required"})
	}

	records := make([]watchlist.Record, len(req.Records))
	for i, p := range req.Records {
		records[i] = watchlist.Record{
			Name:      p.Name,
			Category:  p.Category,
			Embedding: p.Embedding,
			Removed:   p.Removed,
		}
	}

	if err := s.store.Append(c.Context(), records); err != nil {
		s.logger.Error("record append failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	s.screener.Append(records)
	s.publishUpdate(c.Context(), eventstream.ActionAppend, len(records))

	return c.JSON(fiber.Map{"records": len(records)})
}

// resolveWithRetry retries the resolution with fixed backoff before
// converting the terminal error into a structured payload upstream.
func (s *Server) resolveWithRetry(ctx context.Context, resolve func(context.Context) (*screening.Result, error)) (*screening.Result, error) {
	var lastErr error
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(resolveBackoff)
		}

		result, err := resolve(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		s.logger.Warn("resolution attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}

// publishUpdate emits a watchlist.updated event; publish failures are logged
// and never fail the request.
func (s *Server) publishUpdate(ctx context.Context, action string, count int) {
	event := &eventstream.WatchlistUpdatedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeWatchlistUpdated,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Action:        action,
		RecordCount:   count,
		TotalRecords:  s.screener.Size(),
	}

	if err := s.events.PublishWatchlistUpdate(ctx, event); err != nil {
		s.logger.Warn("watchlist event publish failed", "error", err)
	}
}
