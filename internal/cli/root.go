// Package cli provides the stockwise command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockWise/internal/config"
)

const Version = "0.3.0"

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{Config: cfg, Logger: logger})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stockwise",
		Short: "StockWise - stock price forecasting dashboard",
		Long: `StockWise fetches daily price history for a small catalog of tickers,
fits a trend plus seasonality model and serves interactive forecast charts.

Run 'stockwise serve' to start the web dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
				app.Config.DataSource.Provider = provider
				return app.Config.Validate()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("provider", "", "override data_source.provider (yahoo, alpaca, mock)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSymbolsCmd(app))
	rootCmd.AddCommand(newForecastCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockwise %s\n", Version)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
