// Package servecmder provides the serve command running the screening API.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pressroom-tools/redlist/api"
	"github.com/pressroom-tools/redlist/pkg/config"
	"github.com/pressroom-tools/redlist/pkg/embeddings/yandex"
	"github.com/pressroom-tools/redlist/pkg/eventstream"
	kafkastream "github.com/pressroom-tools/redlist/pkg/eventstream/kafka"
	"github.com/pressroom-tools/redlist/pkg/eventstream/nop"
	"github.com/pressroom-tools/redlist/pkg/extract"
	"github.com/pressroom-tools/redlist/pkg/fetch"
	"github.com/pressroom-tools/redlist/pkg/logger"
	"github.com/pressroom-tools/redlist/pkg/screening"
	"github.com/pressroom-tools/redlist/pkg/watchlist/sqlite"
)

type ServeCommander struct {
	listen    string
	debug     bool
	configDir string
	logger    *slog.Logger
}

const serveLongDesc string = `Run the screening API server.

The server loads the watchlist from the configured store, builds the
in-memory index and exposes the screening endpoints.`

const serveShortDesc string = "Run the screening API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the API server to listen on (overrides config)")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithJSON(true))

	cfg, err := config.Load(c.configDir)
	if err != nil {
		return err
	}
	if c.listen != "" {
		cfg.API.Listen = c.listen
	}

	store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.LoadAll(context.Background())
	if err != nil {
		return err
	}
	c.logger.Info("watchlist loaded",
		"path", cfg.Storage.SQLitePath,
		"records", len(records),
	)

	embedder, err := yandex.NewEmbedder(yandex.Config{
		URL:      cfg.Embedding.URL,
		ModelURI: cfg.Embedding.ModelURI,
		APIKey:   cfg.Embedding.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	extractor, err := extract.NewClient(extract.Config{URL: cfg.NER.URL})
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}
	defer extractor.Close()

	var fetcher fetch.Fetcher
	if cfg.Fetch.URL != "" {
		fetcher, err = fetch.NewClient(fetch.Config{
			BaseURL:  cfg.Fetch.URL,
			Username: cfg.Fetch.Username,
			Password: cfg.Fetch.Password,
		})
		if err != nil {
			return fmt.Errorf("creating fetcher: %w", err)
		}
		defer fetcher.Close()
	}

	screener, err := screening.New(screening.Config{
		Dimensions: cfg.Embedding.Dimensions,
		Embedder:   embedder,
		Extractor:  extractor,
		Fetcher:    fetcher,
		Logger:     c.logger,
	}, records)
	if err != nil {
		return fmt.Errorf("creating screener: %w", err)
	}

	events, err := c.createPublisher(cfg)
	if err != nil {
		return err
	}
	defer events.Close()

	apiServer := api.NewServer(api.Config{
		ListenAddr: cfg.API.Listen,
		FullData:   cfg.Screening.FullData,
	}, screener, store, events, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}

func (c *ServeCommander) createPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if len(cfg.Events.Brokers) == 0 {
		c.logger.Info("eventstream disabled")
		return nop.NewPublisher(), nil
	}

	publisher, err := kafkastream.NewPublisher(kafkastream.Config{
		Brokers: cfg.Events.Brokers,
		Topic:   cfg.Events.Topic,
	}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	return publisher, nil
}
