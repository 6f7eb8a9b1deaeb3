// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mihiarc/stumpage/internal/fetch"
	"github.com/mihiarc/stumpage/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download price bulletins from state agency sites",
	Long: `Fetch downloads PDF bulletins from the configured state sources into
the input directory. Files already present on disk are skipped, and a
politeness delay is applied between downloads.

Available sources: ` + strings.Join(fetch.SourceNames(), ", "),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("source", "", "source to fetch (default: all)")
	fetchCmd.Flags().String("dest", "", "destination directory for bulletins")
	fetchCmd.Flags().Duration("delay", 0, "delay between downloads")

	rootCmd.AddCommand(fetchCmd)
}

func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	cfg := types.FetchConfig{
		DestDir:    viper.GetString("fetch.dest_dir"),
		Delay:      viper.GetDuration("fetch.delay"),
		UserAgent:  viper.GetString("fetch.user_agent"),
		MaxRetries: viper.GetInt("fetch.max_retries"),
		Timeout:    viper.GetDuration("fetch.timeout"),
	}
	if cfg.DestDir == "" {
		cfg.DestDir = viper.GetString("locator.input_dir")
	}
	if v, _ := cmd.Flags().GetString("dest"); v != "" {
		cfg.DestDir = v
	}
	if v, _ := cmd.Flags().GetDuration("delay"); v > 0 {
		cfg.Delay = v
	}
	return cfg
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig(cmd)
	f := fetch.New(cfg)
	ctx := context.Background()

	sources := fetch.Sources
	if name, _ := cmd.Flags().GetString("source"); name != "" {
		src, ok := fetch.SourceByName(name)
		if !ok {
			return fmt.Errorf("unknown source %q (available: %s)",
				name, strings.Join(fetch.SourceNames(), ", "))
		}
		sources = []fetch.Source{src}
	}

	start := time.Now()
	var total fetch.BatchResult
	for _, src := range sources {
		fmt.Printf("Fetching %s bulletins...\n", src.Name)
		res := f.FetchSource(ctx, src, os.Stdout)
		total.Downloaded += res.Downloaded
		total.Skipped += res.Skipped
		total.Failed += res.Failed
	}

	fmt.Printf("\nFetched %d bulletin(s) in %s (%d skipped, %d failed)\n",
		total.Downloaded, time.Since(start).Round(time.Second), total.Skipped, total.Failed)
	if total.Failed > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d download(s) failed\n", total.Failed)
	}
	return nil
}
