// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mihiarc/stumpage/internal/extract"
	"github.com/mihiarc/stumpage/internal/period"
	"github.com/mihiarc/stumpage/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show the decoded period and raw extracted rows for one report",
	Long: `Inspect runs a single document through period decoding and table
extraction without normalizing, printing what the pipeline would see. Use it
to debug a report family before adding vocabulary entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("strategy", "", "extraction strategy: auto, layout, text, or pdftotext")
	inspectCmd.Flags().Int("limit", 0, "print at most this many rows (0 = all)")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	stratName, _ := cmd.Flags().GetString("strategy")
	if stratName == "" {
		stratName = viper.GetString("extraction.strategy")
	}
	strat, err := extract.ForConfig(types.ExtractionConfig{
		Strategy:      types.ExtractionStrategy(stratName),
		PdftotextPath: viper.GetString("extraction.pdftotext_path"),
	})
	if err != nil {
		return err
	}

	p := period.FromFilename(path)
	if p.Known() {
		fmt.Printf("period: %d %s (%s, from %s)\n", p.Year, p.Label, p.Dates(), p.Source)
	} else {
		fmt.Println("period: not decodable from filename")
	}

	scanner, err := strat.Scan(path)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	rows := 0
	for scanner.Next() {
		row := scanner.Row()
		rows++
		if limit > 0 && rows > limit {
			continue
		}
		fmt.Printf("p%d #%-4d | %s\n", row.Page, row.Line, strings.Join(row.Cells, " | "))

		if !p.Known() {
			if fromText := period.FromText(row.Text()); fromText.Known() {
				p = fromText
				fmt.Printf("period: %d %s (%s, from %s)\n", p.Year, p.Label, p.Dates(), p.Source)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}

	if rows == 0 {
		fmt.Println("no extractable content")
	} else {
		fmt.Printf("\n%d rows (%s strategy)\n", rows, strat.Name())
	}
	return nil
}
