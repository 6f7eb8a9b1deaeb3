// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw tabular rows to structured price records using
// vocabulary-driven keyword matching and numeric cleaning.
package normalize

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mihiarc/stumpage/pkg/types"
)

// UnspecifiedProduct labels rows kept without a recognized product category
// when the config allows them.
const UnspecifiedProduct = "unspecified"

// Normalizer converts RawRows from one document into PriceRecords. It is
// stateful per document: header rows establish the unit and region context
// that later data rows fall back on, so use a fresh Normalizer per report.
type Normalizer struct {
	vocab            Vocabulary
	state            string
	allowUnspecified bool

	// Context established from non-data rows of the current document.
	contextUnit   string
	contextRegion string
}

// New builds a Normalizer for one document.
func New(vocab Vocabulary, cfg types.NormalizeConfig) *Normalizer {
	return &Normalizer{
		vocab:            vocab,
		state:            strings.ToUpper(strings.TrimSpace(cfg.State)),
		allowUnspecified: cfg.AllowUnspecifiedProduct,
	}
}

// Normalize attempts to produce one record from a row. Most rows in a
// report are headers, totals, or footnotes; those return ok == false and
// that is not an error. Rows that do not yield a record still contribute
// unit and region context for the rows below them.
func (n *Normalizer) Normalize(row types.RawRow, report types.ReportFile) (types.PriceRecord, bool) {
	species, ok := matchCells(row.Cells, n.vocab.Species)
	if !ok {
		n.absorbContext(row)
		return types.PriceRecord{}, false
	}

	product := ""
	if m, ok := matchCells(row.Cells, n.vocab.Products); ok {
		product = m.canonical
	} else if n.allowUnspecified {
		product = UnspecifiedProduct
	} else {
		return types.PriceRecord{}, false
	}

	prices := n.rowPrices(row, species.cell)
	if len(prices) == 0 {
		return types.PriceRecord{}, false
	}
	low, high := priceBounds(prices)

	unit := n.contextUnit
	if m, ok := matchCells(row.Cells, n.vocab.Units); ok {
		unit = m.canonical
	}
	// A price without a unit is not usable.
	if unit == "" {
		return types.PriceRecord{}, false
	}

	region := n.contextRegion
	if m, ok := matchCells(row.Cells, n.vocab.Regions); ok {
		region = m.canonical
	}

	return types.PriceRecord{
		State:       n.state,
		Year:        report.Period.Year,
		Period:      report.Period.Label,
		Region:      region,
		Species:     species.canonical,
		ProductType: product,
		PriceLow:    low,
		PriceHigh:   high,
		Unit:        unit,
		PeriodDates: report.Period.Dates(),
		SourceFile:  filepath.Base(report.Path),
	}, true
}

// absorbContext updates the document context from a non-data row: a table
// header naming a unit, or a section heading naming a region.
func (n *Normalizer) absorbContext(row types.RawRow) {
	if m, ok := matchCells(row.Cells, n.vocab.Units); ok {
		n.contextUnit = m.canonical
	}
	if m, ok := matchCells(row.Cells, n.vocab.Regions); ok {
		n.contextRegion = m.canonical
	}
}

// rowPrices collects parseable numeric tokens from the row, skipping the
// species cell so stray digits in a name column are not read as prices.
func (n *Normalizer) rowPrices(row types.RawRow, speciesCell int) []float64 {
	var prices []float64
	for i, cell := range row.Cells {
		if i == speciesCell {
			continue
		}
		for _, tok := range numericTokens(cell) {
			prices = append(prices, tok)
		}
	}
	return prices
}

// priceBounds reduces the row's numeric tokens to a low/high pair:
// one token is a point estimate, two tokens are the bounds (swapped into
// order when the source transposed them), three or more take min and max.
func priceBounds(prices []float64) (low, high float64) {
	switch len(prices) {
	case 1:
		return prices[0], prices[0]
	case 2:
		if prices[0] > prices[1] {
			return prices[1], prices[0]
		}
		return prices[0], prices[1]
	default:
		low, high = prices[0], prices[0]
		for _, p := range prices[1:] {
			if p < low {
				low = p
			}
			if p > high {
				high = p
			}
		}
		return low, high
	}
}

// numericTokens parses the currency-like numbers in a cell. Tokens are
// split on whitespace; an embedded range like "250-300" yields both bounds.
// Negative or unparsable tokens are dropped.
func numericTokens(cell string) []float64 {
	var out []float64
	for _, field := range strings.Fields(cell) {
		if lo, hi, ok := parseRange(field); ok {
			out = append(out, lo, hi)
			continue
		}
		if v, ok := parsePrice(field); ok {
			out = append(out, v)
		}
	}
	return out
}

// parseRange handles "250-300" style tokens. A zero-padded side marks a
// date fragment like "04-23", never a price; the token is dropped whole.
func parseRange(tok string) (lo, hi float64, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	if zeroPadded(parts[0]) || zeroPadded(parts[1]) {
		return 0, 0, false
	}
	lo, okLo := parsePrice(parts[0])
	hi, okHi := parsePrice(parts[1])
	if !okLo || !okHi {
		return 0, 0, false
	}
	return lo, hi, true
}

func zeroPadded(tok string) bool {
	tok = strings.TrimPrefix(strings.TrimSpace(tok), "$")
	return len(tok) > 1 && tok[0] == '0' && tok[1] != '.'
}

// parsePrice cleans a currency-like token ($ sign, thousands separators,
// footnote asterisks) and parses it. Negative values are rejected; prices
// are non-negative by definition.
func parsePrice(tok string) (float64, bool) {
	cleaned := strings.TrimSpace(tok)
	cleaned = strings.Trim(cleaned, "*")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
