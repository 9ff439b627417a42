// Package redlistcmder
package redlistcmder

import (
	"github.com/spf13/cobra"

	seedcmder "github.com/pressroom-tools/redlist/cmd/redlist/seed"
	servecmder "github.com/pressroom-tools/redlist/cmd/redlist/serve"
)

const redlistLongDesc string = `Redlist screens free-text documents for mentions of watchlisted names.

Run services using:
  redlist serve        Run the screening API server
  redlist seed         Load a registry spreadsheet into the watchlist store`

const redlistShortDesc string = "Redlist - watchlist screening"

func NewRedlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redlist",
		Short: redlistShortDesc,
		Long:  redlistLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())

	return cmd
}
