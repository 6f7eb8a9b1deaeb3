// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset accumulates normalized price records for one run and
// serializes them to a delimited table with summary statistics.
package dataset

import (
	"fmt"
	"io"
	"sort"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Dataset is the in-memory accumulation of all records for one run. It is
// owned by the run driver and never shared across goroutines.
type Dataset struct {
	Records []types.PriceRecord

	// RowsExamined counts every row the normalizer saw; RowsAccepted
	// counts rows that became records. Reporting both keeps silent data
	// loss observable.
	RowsExamined int
	RowsAccepted int
	RowsInvalid  int
}

// Add validates a record and appends it. Invalid records are counted and
// dropped; the error describes why for verbose logging.
func (d *Dataset) Add(r types.PriceRecord) error {
	if err := r.Validate(); err != nil {
		d.RowsInvalid++
		return err
	}
	d.Records = append(d.Records, r)
	d.RowsAccepted++
	return nil
}

// Merge appends another accumulation, typically one document's buffer,
// records and counters both.
func (d *Dataset) Merge(other Dataset) {
	d.Records = append(d.Records, other.Records...)
	d.RowsExamined += other.RowsExamined
	d.RowsAccepted += other.RowsAccepted
	d.RowsInvalid += other.RowsInvalid
}

// Sort orders records for presentation: year, period, region, species,
// product, unit. Record identity does not depend on order; sorting makes
// reruns byte-identical.
func (d *Dataset) Sort() {
	sort.Slice(d.Records, func(i, j int) bool {
		a, b := d.Records[i], d.Records[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Species != b.Species {
			return a.Species < b.Species
		}
		if a.ProductType != b.ProductType {
			return a.ProductType < b.ProductType
		}
		return a.Unit < b.Unit
	})
}

// Stats holds the run's summary statistics.
type Stats struct {
	Records      int
	MinYear      int
	MaxYear      int
	Species      int
	ProductTypes int
	Regions      int
}

// Stats computes summary statistics over the accepted records.
func (d *Dataset) Stats() Stats {
	s := Stats{Records: len(d.Records)}
	species := map[string]bool{}
	products := map[string]bool{}
	regions := map[string]bool{}

	for _, r := range d.Records {
		if s.MinYear == 0 || r.Year < s.MinYear {
			s.MinYear = r.Year
		}
		if r.Year > s.MaxYear {
			s.MaxYear = r.Year
		}
		species[r.Species] = true
		products[r.ProductType] = true
		if r.Region != "" {
			regions[r.Region] = true
		}
	}

	s.Species = len(species)
	s.ProductTypes = len(products)
	s.Regions = len(regions)
	return s
}

// PrintSummary writes the human-readable run summary.
func (d *Dataset) PrintSummary(w io.Writer) {
	s := d.Stats()
	fmt.Fprintf(w, "\nRun summary:\n")
	fmt.Fprintf(w, "  rows examined:  %d\n", d.RowsExamined)
	fmt.Fprintf(w, "  rows accepted:  %d\n", d.RowsAccepted)
	if d.RowsInvalid > 0 {
		fmt.Fprintf(w, "  rows invalid:   %d\n", d.RowsInvalid)
	}
	if s.Records == 0 {
		fmt.Fprintf(w, "  no records produced\n")
		return
	}
	fmt.Fprintf(w, "  records:        %d\n", s.Records)
	fmt.Fprintf(w, "  year range:     %d-%d\n", s.MinYear, s.MaxYear)
	fmt.Fprintf(w, "  species:        %d\n", s.Species)
	fmt.Fprintf(w, "  product types:  %d\n", s.ProductTypes)
	fmt.Fprintf(w, "  regions:        %d\n", s.Regions)
}
