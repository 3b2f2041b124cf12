package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"farmhelp/entities"
	"farmhelp/pkg/importer"
	"farmhelp/pkg/scheduler"
	"farmhelp/pkg/seed"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSeedCommand() *cobra.Command {
	var (
		days int
		file string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo prices or a JSON seed file",
		Long: `Load price observations tagged with source "seed".

Without --file a deterministic demo set is generated, one row per market per
day for the last --days days. With --file a JSON array of records is read
(commodity, market_name or mandi_name, state, district, price_per_quintal,
min_price, max_price, modal_price, arrival_date).

Rows already stored for the same commodity, market and date are skipped.

Examples:
  farmhelp seed --days 60
  farmhelp seed --file data/mandi_prices.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			s := seed.New(a.im, a.clock)
			var res importer.Result
			if file != "" {
				res, err = s.File(cmd.Context(), file)
			} else {
				res, err = s.Demo(cmd.Context(), days)
			}
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().IntVar(&days, "days", 45, "days of demo history to generate")
	cmd.Flags().StringVar(&file, "file", "", "JSON seed file")
	return cmd
}

func newImportCommand() *cobra.Command {
	var commodity, state, format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import prices from a CSV, XLSX or Agmarknet HTML report",
		Long: `Import price observations tagged with source "import".

The format follows the file extension unless --format is given. Agmarknet
".xls" downloads are HTML tables and are read as such. --commodity and
--state fill columns the file does not carry.

Examples:
  farmhelp import prices.csv
  farmhelp import Agmarknet_Price_Report.xls --commodity Onion --state Maharashtra`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				f, err := importer.FormatFromName(filepath.Base(path))
				if err != nil {
					return err
				}
				format = f
			}
			fh, err := os.Open(path)
			if err != nil {
				return err
			}
			defer fh.Close()
			rows, err := importer.Parse(format, fh, importer.Defaults{Commodity: commodity, State: state})
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			res, err := a.im.Import(cmd.Context(), entities.SourceImport, rows)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity for files without a commodity column")
	cmd.Flags().StringVar(&state, "state", "", "state for files without a state column")
	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or html")
	return cmd
}

func newRefreshCommand() *cobra.Command {
	var (
		commodity, state string
		all              bool
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Top up the store from data.gov.in",
		Long: `Fetch current prices from the data.gov.in mandi resource and store the new
ones. Without DATA_GOV_IN_API_KEY nothing is fetched and the local data is
reported as the source.

Examples:
  farmhelp refresh --commodity Wheat --state Punjab
  farmhelp refresh --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && commodity == "" {
				return errors.New("--commodity or --all is required")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if all {
				return printJSON(scheduler.New(a.refresh, a.cfg.RefreshCommodities).RunOnce(cmd.Context()))
			}
			res, err := a.refresh.Refresh(cmd.Context(), commodity, state)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity to fetch")
	cmd.Flags().StringVar(&state, "state", "", "state filter")
	cmd.Flags().BoolVar(&all, "all", false, "refresh every REFRESH_COMMODITIES entry")
	return cmd
}

func newCleanupCommand() *cobra.Command {
	var batch, source string
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete stored prices by batch id or source",
		Long: `Delete price observations written by one import, seed or refresh batch, or
every observation from one source (seed, import, datagov, manual).

Examples:
  farmhelp cleanup --batch 4f0c2a4e-6f2b-4a8e-9d4e-0b3c1d9a7e21
  farmhelp cleanup --source seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (batch == "") == (source == "") {
				return errors.New("exactly one of --batch or --source is required")
			}
			if source != "" && !knownSource(source) {
				return fmt.Errorf("unknown source %q", source)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var n int64
			if batch != "" {
				n, err = a.repo.DeleteBatch(cmd.Context(), batch)
			} else {
				n, err = a.repo.DeleteSource(cmd.Context(), source)
			}
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"deleted": n})
		},
	}
	cmd.Flags().StringVar(&batch, "batch", "", "batch id to delete")
	cmd.Flags().StringVar(&source, "source", "", "source to delete")
	return cmd
}

func knownSource(s string) bool {
	switch s {
	case entities.SourceSeed, entities.SourceImport, entities.SourceDataGov, entities.SourceManual:
		return true
	}
	return false
}
