package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"StockWise/internal/calculator"
	"StockWise/internal/catalog"
	"StockWise/internal/dashboard"
	"StockWise/internal/export"
)

func newSymbolsCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List the selectable symbols and horizons",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.New(app.Config.Symbols)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"symbols": cat.Symbols(), "years": catalog.Years})
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tTICKER")
			for _, s := range cat.Symbols() {
				fmt.Fprintf(w, "%s\t%s\n", s.Label, s.Ticker)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func newForecastCmd(app *App) *cobra.Command {
	var (
		symbol string
		years  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Run one forecast and print the previews",
		Example: `  stockwise forecast --symbol GOOG --years 2
  stockwise forecast --symbol Apple --years 1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.build(true); err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			p, err := app.Pipeline.RunWithStatus(cmd.Context(), dashboard.Selection{Symbol: symbol, Years: years}, func(s string) {
				if !asJSON {
					fmt.Fprintln(out, s)
				}
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(out, p)
			}
			fmt.Fprintf(out, "\nRaw data (%s)\n", p.Symbol)
			printTable(out, p.RawTail)
			fmt.Fprintf(out, "\nForecast data: %s\n", dashboard.ForecastTitle(p.Years))
			printTable(out, p.ForecastTail)
			return nil
		},
	}
	cmd.Flags().StringVarP(&symbol, "symbol", "s", catalog.DefaultSymbols[0].Ticker, "symbol label or ticker")
	cmd.Flags().IntVarP(&years, "years", "y", 1, "forecast horizon in years (1-4)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the full payload as JSON")
	return cmd
}

func printTable(out io.Writer, t dashboard.Table) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
	}
	w.Flush()
}

func newExportCmd(app *App) *cobra.Command {
	var (
		symbol   string
		years    int
		outPath  string
		forecast bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the training table (or the forecast) to a Parquet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}
			if err := app.build(false); err != nil {
				return err
			}
			p, err := app.Pipeline.Run(cmd.Context(), dashboard.Selection{Symbol: symbol, Years: years})
			if err != nil {
				return err
			}
			if forecast {
				err = export.WriteForecast(outPath, p.Result.Rows)
			} else {
				err = export.WriteTraining(outPath, calculator.Shape(p.Series))
			}
			if err != nil {
				return err
			}
			app.Logger.Info().Str("path", outPath).Str("symbol", p.Symbol).Bool("forecast", forecast).Msg("exported")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&symbol, "symbol", "s", catalog.DefaultSymbols[0].Ticker, "symbol label or ticker")
	cmd.Flags().IntVarP(&years, "years", "y", 1, "forecast horizon in years (1-4)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output .parquet path")
	cmd.Flags().BoolVar(&forecast, "forecast", false, "export model output instead of training rows")
	return cmd
}
