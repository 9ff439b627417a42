package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
	"github.com/pressroom-tools/redlist/pkg/screening"
	"github.com/pressroom-tools/redlist/pkg/watchlist"
)

// ErrorResponse is the structured error payload returned after the retry
// budget is exhausted.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the API server wrapping the screening engine.
type Server struct {
	config   Config
	screener *screening.Screener
	store    watchlist.Store
	events   eventstream.Publisher
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The screener and store are injected so
// they can be shared with other components; the events publisher may be a
// nop.
func NewServer(
	config Config,
	screener *screening.Screener,
	store watchlist.Store,
	events eventstream.Publisher,
	logger *slog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		screener: screener,
		store:    store,
		events:   events,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/check", s.handleCheckText)
	app.Get("/check/:id", s.handleCheckDocument)
	app.Get("/update", s.handleUpdate)
	app.Post("/records", s.handleAddRecords)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
