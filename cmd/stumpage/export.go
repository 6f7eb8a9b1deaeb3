// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihiarc/stumpage/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed records to YAML or JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("db", "", "price index database file")
	exportCmd.Flags().String("state", "", "filter by state code")
	exportCmd.Flags().String("species", "", "filter by species")
	exportCmd.Flags().String("product", "", "filter by product type")
	exportCmd.Flags().String("region", "", "filter by region")
	exportCmd.Flags().Int("year", 0, "filter by year")
	exportCmd.Flags().String("format", "yaml", "output format (yaml or json)")
	exportCmd.Flags().StringP("out", "o", "", "output file (required)")
	exportCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	opts := queryOptions(cmd)

	ctx := context.Background()
	switch format {
	case "yaml":
		err = s.ExportYAML(ctx, opts, out)
	case "json":
		err = s.ExportJSON(ctx, opts, out)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}
