// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mihiarc/stumpage/internal/extract"
	"github.com/mihiarc/stumpage/internal/locate"
	"github.com/mihiarc/stumpage/internal/normalize"
	"github.com/mihiarc/stumpage/internal/pipeline"
	"github.com/mihiarc/stumpage/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Run the extraction pipeline over a directory of report PDFs",
	Long: `Parse scans the input directory for report documents, decodes each
report's period, extracts tabular rows, normalizes them against the species,
product, and unit vocabularies, and writes a single CSV dataset.

A batch always runs to completion: unreadable or empty documents are logged
and skipped. The run fails only when the output file cannot be written.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("input", "", "input directory of report PDFs")
	parseCmd.Flags().String("output", "", "output CSV file")
	parseCmd.Flags().String("state", "", "two-letter state family of the reports (e.g. TN)")
	parseCmd.Flags().String("strategy", "", "extraction strategy: auto, layout, text, or pdftotext")
	parseCmd.Flags().String("vocab", "", "YAML vocabulary file overriding the built-in one")
	parseCmd.Flags().Bool("keep-unspecified-product", false, "keep rows without a recognized product category")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := parseConfig(cmd)

	strat, err := extract.ForConfig(cfg.Extraction)
	if err != nil {
		return err
	}

	vocab := normalize.Default(cfg.Normalize.State)
	if cfg.Normalize.VocabPath != "" {
		vocab, err = normalize.Load(cfg.Normalize.VocabPath, cfg.Normalize.State)
		if err != nil {
			return err
		}
	}

	reports, err := locate.Reports(cfg.Locator)
	if err != nil {
		return err
	}

	// Open the output before doing any work: an unwritable destination is
	// the one condition that aborts a run.
	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", cfg.Output.Path, err)
	}
	defer out.Close()

	if len(reports) == 0 {
		fmt.Fprintf(os.Stderr, "warning: no report documents found in %s\n", cfg.Locator.InputDir)
	}

	result := pipeline.Run(reports, strat, vocab, cfg.Normalize, os.Stdout)

	if err := result.Dataset.WriteCSV(out); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	fmt.Printf("\nBatch: %d parsed, %d empty, %d failed (total: %d)\n",
		result.Processed, result.Empty, result.Failed, result.Total())
	result.Dataset.PrintSummary(os.Stdout)
	fmt.Printf("\nDataset written to %s\n", cfg.Output.Path)

	// Per-document failures were already reported; a batch with one bad
	// report still exits zero.
	return nil
}

func parseConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Locator: types.LocatorConfig{
			InputDir:   viper.GetString("locator.input_dir"),
			Extensions: viper.GetStringSlice("locator.extensions"),
		},
		Extraction: types.ExtractionConfig{
			Strategy:      types.ExtractionStrategy(viper.GetString("extraction.strategy")),
			PdftotextPath: viper.GetString("extraction.pdftotext_path"),
		},
		Normalize: types.NormalizeConfig{
			State:                   viper.GetString("normalize.state"),
			VocabPath:               viper.GetString("normalize.vocab_path"),
			AllowUnspecifiedProduct: viper.GetBool("normalize.allow_unspecified_product"),
		},
		Output: types.OutputConfig{
			Path: viper.GetString("output.path"),
		},
	}

	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.Locator.InputDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output.Path = v
	}
	if v, _ := cmd.Flags().GetString("state"); v != "" {
		cfg.Normalize.State = v
	}
	if v, _ := cmd.Flags().GetString("strategy"); v != "" {
		cfg.Extraction.Strategy = types.ExtractionStrategy(v)
	}
	if v, _ := cmd.Flags().GetString("vocab"); v != "" {
		cfg.Normalize.VocabPath = v
	}
	if v, _ := cmd.Flags().GetBool("keep-unspecified-product"); v {
		cfg.Normalize.AllowUnspecifiedProduct = true
	}
	return cfg
}
