// Package seedcmder provides the seed command loading a registry
// spreadsheet into the watchlist store.
package seedcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pressroom-tools/redlist/pkg/config"
	"github.com/pressroom-tools/redlist/pkg/embeddings/yandex"
	"github.com/pressroom-tools/redlist/pkg/ingest"
	"github.com/pressroom-tools/redlist/pkg/logger"
	"github.com/pressroom-tools/redlist/pkg/watchlist/sqlite"
)

type SeedCommander struct {
	sheetPath string
	category  string
	workers   int
	debug     bool
	configDir string
}

const seedLongDesc string = `Load a registry spreadsheet into the watchlist store.

Reads the first sheet of the workbook, embeds every name via the configured
embedding provider and appends the records under the given category.`

const seedShortDesc string = "Load a registry spreadsheet into the watchlist store"

func NewSeedCmd() *cobra.Command {
	cmder := &SeedCommander{}

	cmd := &cobra.Command{
		Use:   "seed <spreadsheet.xlsx>",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}
			cmder.sheetPath = args[0]
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.category, "category", "t", "sanctioned", "Category label for the loaded records")
	cmd.Flags().IntVarP(&cmder.workers, "workers", "w", 0, "Concurrent embedding workers")

	return cmd
}

func (c *SeedCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	cfg, err := config.Load(c.configDir)
	if err != nil {
		return err
	}

	items, err := ingest.LoadSheet(c.sheetPath)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		log.Warn("no items found in spreadsheet", "path", c.sheetPath)
		return nil
	}
	log.Info("spreadsheet loaded",
		"path", c.sheetPath,
		"items", len(items),
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

	ctx := context.Background()

	records, err := ingest.EmbedAll(ctx, embedder, items, c.category, c.workers, log)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Append(ctx, records); err != nil {
		return err
	}

	log.Info("watchlist seeded",
		"records", len(records),
		"category", c.category,
		"path", cfg.Storage.SQLitePath,
	)
	return nil
}
