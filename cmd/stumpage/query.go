// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mihiarc/stumpage/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the price index",
	Long: `Query prints indexed price observations matching the given filters.
Without filters it prints the whole index. Use --summary for aggregate
counts and per-species averages instead of individual rows.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("db", "", "price index database file")
	queryCmd.Flags().String("state", "", "filter by state code")
	queryCmd.Flags().String("species", "", "filter by species")
	queryCmd.Flags().String("product", "", "filter by product type")
	queryCmd.Flags().String("region", "", "filter by region")
	queryCmd.Flags().Int("year", 0, "filter by year")
	queryCmd.Flags().Bool("json", false, "print results as JSON")
	queryCmd.Flags().Bool("summary", false, "print aggregate summary instead of rows")

	rootCmd.AddCommand(queryCmd)
}

func queryOptions(cmd *cobra.Command) store.QueryOptions {
	var opts store.QueryOptions
	opts.State, _ = cmd.Flags().GetString("state")
	opts.Species, _ = cmd.Flags().GetString("species")
	opts.Product, _ = cmd.Flags().GetString("product")
	opts.Region, _ = cmd.Flags().GetString("region")
	opts.Year, _ = cmd.Flags().GetInt("year")
	return opts
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := store.Open(dbPath(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	opts := queryOptions(cmd)

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		sum, err := s.Summarize(ctx, opts)
		if err != nil {
			return err
		}
		sum.Print(os.Stdout)
		return nil
	}

	records, err := s.Query(ctx, opts)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No matching records.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tPERIOD\tREGION\tSPECIES\tPRODUCT\tLOW\tHIGH\tUNIT\tSTATE")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s\t%s\n",
			r.Year, r.Period, r.Region, r.Species, r.ProductType,
			r.PriceLow, r.PriceHigh, r.Unit, r.State)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d record(s)\n", len(records))
	return nil
}
