// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mihiarc/stumpage/internal/dataset"
	"github.com/mihiarc/stumpage/internal/store"
)

var indexCmd = &cobra.Command{
	Use:   "index [csv-file]",
	Short: "Ingest a parsed CSV dataset into the price index",
	Long: `Index reads a CSV file produced by parse and upserts its records into
the SQLite price index. Re-indexing the same period overwrites the prior
observations, so the index stays one-row-per-observation across runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("db", "", "price index database file")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	records, err := dataset.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), records, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Rejected > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d record(s) rejected\n", summary.Rejected)
	}
	return nil
}

func dbPath(cmd *cobra.Command) string {
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		return v
	}
	return viper.GetString("store.db_path")
}
