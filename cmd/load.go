package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prairiedata/fiscal-cli/internal/loader"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load <table> <file>",
	Short: "Load a comptroller data file into one table",
	Long: "Loads a CSV or XLSX file into the named table. Tables: " +
		strings.Join(sortedTables(), ", ") + ".",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		table, path := args[0], args[1]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		res, err := loader.New(st).LoadFile(ctx, table, path)
		if err != nil {
			return err
		}

		fmt.Printf("Loaded %d rows into %s", res.Rows, res.Table)
		if res.Skipped > 0 {
			fmt.Printf(" (%d rows skipped)", res.Skipped)
		}
		fmt.Println(".")
		return nil
	},
}

// loadAllCmd ingests every recognized file in the data directory. Files are
// matched to tables by base name: entities.csv, pensions.xlsx, and so on.
var loadAllCmd = &cobra.Command{
	Use:   "load-all [dir]",
	Short: "Load every data file found in the data directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("load"); err != nil {
			return err
		}
		dir := cfg.Load.DataDir
		if len(args) == 1 {
			dir = args[0]
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		loaded, err := loadDir(cmd, st, dir)
		if err != nil {
			return err
		}
		if loaded == 0 {
			return eris.Errorf("no data files found in %s", dir)
		}
		return nil
	},
}

func loadDir(cmd *cobra.Command, st store.Store, dir string) (int, error) {
	l := loader.New(st)
	loaded := 0

	// Entities must load before the tables that reference their codes.
	for _, table := range []string{
		"entities", "entity_stats",
		"revenues", "expenditures", "fund_balances",
		"indebtedness", "pensions",
	} {
		path, ok := findDataFile(dir, table)
		if !ok {
			continue
		}

		res, err := l.LoadFile(cmd.Context(), table, path)
		if err != nil {
			return loaded, err
		}
		loaded++

		zap.L().Info("loaded data file",
			zap.String("table", table),
			zap.String("file", path),
			zap.Int64("rows", res.Rows),
			zap.Int("skipped", res.Skipped),
		)
		fmt.Printf("%s: %d rows from %s\n", table, res.Rows, filepath.Base(path))
	}

	return loaded, nil
}

func findDataFile(dir, table string) (string, bool) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(dir, table+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func sortedTables() []string {
	names := loader.Tables()
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(loadAllCmd)
}
