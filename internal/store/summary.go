// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// YearCount is one row of the records-by-year breakdown.
type YearCount struct {
	Year  int
	Count int
}

// SpeciesAverage is one row of the per-species price summary.
type SpeciesAverage struct {
	Species string
	Count   int
	AvgLow  float64
	AvgHigh float64
}

// Summary aggregates the index contents matching opts.
type Summary struct {
	Records int
	ByYear  []YearCount
	Species []SpeciesAverage
}

// Summarize computes record counts by year and average price bounds by
// species over the records matching opts.
func (s *Store) Summarize(ctx context.Context, opts QueryOptions) (Summary, error) {
	records, err := s.Query(ctx, opts)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Records: len(records)}

	byYear := map[int]int{}
	type agg struct {
		count   int
		sumLow  float64
		sumHigh float64
	}
	bySpecies := map[string]*agg{}
	var yearOrder []int
	var speciesOrder []string

	for _, r := range records {
		if byYear[r.Year] == 0 {
			yearOrder = append(yearOrder, r.Year)
		}
		byYear[r.Year]++

		a := bySpecies[r.Species]
		if a == nil {
			a = &agg{}
			bySpecies[r.Species] = a
			speciesOrder = append(speciesOrder, r.Species)
		}
		a.count++
		a.sumLow += r.PriceLow
		a.sumHigh += r.PriceHigh
	}

	// Query sorts by year first, so yearOrder is already ascending.
	sort.Strings(speciesOrder)
	for _, y := range yearOrder {
		summary.ByYear = append(summary.ByYear, YearCount{Year: y, Count: byYear[y]})
	}
	for _, sp := range speciesOrder {
		a := bySpecies[sp]
		summary.Species = append(summary.Species, SpeciesAverage{
			Species: sp,
			Count:   a.count,
			AvgLow:  a.sumLow / float64(a.count),
			AvgHigh: a.sumHigh / float64(a.count),
		})
	}
	return summary, nil
}

// Print writes the summary in the diagnostic console format.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Records: %d\n", s.Records)
	if s.Records == 0 {
		return
	}

	fmt.Fprintf(w, "\nRecords by year:\n")
	for _, yc := range s.ByYear {
		fmt.Fprintf(w, "  %d: %d\n", yc.Year, yc.Count)
	}

	fmt.Fprintf(w, "\nAverage price bounds by species:\n")
	for _, sa := range s.Species {
		fmt.Fprintf(w, "  %-16s %4d records  %8.2f .. %.2f\n",
			sa.Species, sa.Count, sa.AvgLow, sa.AvgHigh)
	}
}
