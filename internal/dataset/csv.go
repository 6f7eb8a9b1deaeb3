// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Columns is the fixed output column order. The required set comes first;
// state and period_dates are additive per-source-family columns.
var Columns = []string{
	"year", "period", "region", "species", "product_type",
	"price_low", "price_high", "unit", "state", "period_dates",
}

// WriteCSV serializes the dataset in Columns order. Callers should Sort
// first; given sorted records and unchanged inputs the output is
// byte-identical across runs.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range d.Records {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

func csvRow(r types.PriceRecord) []string {
	return []string{
		strconv.Itoa(r.Year),
		r.Period,
		r.Region,
		r.Species,
		r.ProductType,
		formatPrice(r.PriceLow),
		formatPrice(r.PriceHigh),
		r.Unit,
		r.State,
		r.PeriodDates,
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ReadCSV parses a table previously written by WriteCSV, for ingestion
// into the price index.
func ReadCSV(r io.Reader) ([]types.PriceRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range Columns[:8] {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []types.PriceRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		year, err := strconv.Atoi(field(row, "year"))
		if err != nil {
			return nil, fmt.Errorf("parsing year %q: %w", field(row, "year"), err)
		}
		low, err := strconv.ParseFloat(field(row, "price_low"), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing price_low %q: %w", field(row, "price_low"), err)
		}
		high, err := strconv.ParseFloat(field(row, "price_high"), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing price_high %q: %w", field(row, "price_high"), err)
		}

		records = append(records, types.PriceRecord{
			Year:        year,
			Period:      field(row, "period"),
			Region:      field(row, "region"),
			Species:     field(row, "species"),
			ProductType: field(row, "product_type"),
			PriceLow:    low,
			PriceHigh:   high,
			Unit:        field(row, "unit"),
			State:       field(row, "state"),
			PeriodDates: field(row, "period_dates"),
		})
	}
	return records, nil
}
