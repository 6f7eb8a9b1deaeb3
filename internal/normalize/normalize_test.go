// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"
	"time"

	"github.com/mihiarc/stumpage/pkg/types"
)

// --- test helpers ---

func testReport() types.ReportFile {
	return types.ReportFile{
		Path: "reports/avg-stumpage-04-23-09-23.pdf",
		Period: types.ReportPeriod{
			Year:   2023,
			Label:  "Fall",
			Start:  time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC),
			Source: types.PeriodFromFilename,
		},
	}
}

func testNormalizer(t *testing.T, cfg types.NormalizeConfig) *Normalizer {
	t.Helper()
	if cfg.State == "" {
		cfg.State = "TN"
	}
	return New(Default(cfg.State), cfg)
}

func row(cells ...string) types.RawRow {
	return types.RawRow{Cells: cells, Page: 1, Line: 1}
}

// --- data rows ---

func TestNormalizeDataRow(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{})
	report := testReport()

	// Header establishes the unit context.
	n.Normalize(row("Species", "Sawtimber ($/MBF)"), report)

	rec, ok := n.Normalize(row("White Pine", "Sawtimber", "250", "300"), report)
	if !ok {
		t.Fatal("data row not normalized")
	}
	if rec.Species != "White Pine" {
		t.Errorf("species = %q, want White Pine", rec.Species)
	}
	if rec.ProductType != "Sawlogs" {
		t.Errorf("product = %q, want Sawlogs", rec.ProductType)
	}
	if rec.PriceLow != 250 || rec.PriceHigh != 300 {
		t.Errorf("prices = %.2f..%.2f, want 250..300", rec.PriceLow, rec.PriceHigh)
	}
	if rec.Unit != "MBF" {
		t.Errorf("unit = %q, want MBF", rec.Unit)
	}
	if rec.State != "TN" || rec.Year != 2023 || rec.Period != "Fall" {
		t.Errorf("period fields = %s/%d/%s", rec.State, rec.Year, rec.Period)
	}
	if rec.PeriodDates != "2023-04-01..2023-09-30" {
		t.Errorf("period dates = %q", rec.PeriodDates)
	}
	if rec.SourceFile != "avg-stumpage-04-23-09-23.pdf" {
		t.Errorf("source file = %q", rec.SourceFile)
	}
}

func TestNormalizePriceShapes(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		wantLow  float64
		wantHigh float64
	}{
		{"single figure is degenerate range", []string{"Red Oak", "Sawlogs", "275"}, 275, 275},
		{"reversed bounds are repaired", []string{"Red Oak", "Sawlogs", "300", "250"}, 250, 300},
		{"embedded range token", []string{"Red Oak", "Sawlogs", "250-300"}, 250, 300},
		{"three numerics take min and max", []string{"Red Oak", "Sawlogs", "250", "275", "310"}, 250, 310},
		{"currency decoration stripped", []string{"Red Oak", "Sawlogs", "$1,250.50", "$1,300*"}, 1250.50, 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := testNormalizer(t, types.NormalizeConfig{})
			n.Normalize(row("Prices in $/MBF"), testReport())

			rec, ok := n.Normalize(row(tt.cells...), testReport())
			if !ok {
				t.Fatal("row not normalized")
			}
			if rec.PriceLow != tt.wantLow || rec.PriceHigh != tt.wantHigh {
				t.Errorf("prices = %.2f..%.2f, want %.2f..%.2f",
					rec.PriceLow, rec.PriceHigh, tt.wantLow, tt.wantHigh)
			}
		})
	}
}

func TestNormalizeUnitInRowWinsOverContext(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{})
	n.Normalize(row("Prices in $/MBF"), testReport())

	rec, ok := n.Normalize(row("Pine", "Pulpwood", "12", "18", "$/ton"), testReport())
	if !ok {
		t.Fatal("row not normalized")
	}
	if rec.Unit != "ton" {
		t.Errorf("unit = %q, want row-level ton to beat context MBF", rec.Unit)
	}
}

// --- discarded rows ---

func TestNormalizeDiscards(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
	}{
		{"header without species", []string{"Species", "Min", "Max"}},
		{"species without prices", []string{"White Pine", "Sawtimber"}},
		{"prices without unit context", []string{"White Pine", "Sawtimber", "250", "300"}},
		{"footnote text", []string{"* insufficient reports to compute an average"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := testNormalizer(t, types.NormalizeConfig{})
			if _, ok := n.Normalize(row(tt.cells...), testReport()); ok {
				t.Error("row unexpectedly normalized")
			}
		})
	}
}

func TestNormalizeProductGating(t *testing.T) {
	report := testReport()

	// Without a recognizable product the row is dropped by default.
	n := testNormalizer(t, types.NormalizeConfig{})
	n.Normalize(row("Prices in $/MBF"), report)
	if _, ok := n.Normalize(row("White Pine", "250", "300"), report); ok {
		t.Error("productless row kept without AllowUnspecifiedProduct")
	}

	// With the escape hatch it is kept and labeled.
	n = testNormalizer(t, types.NormalizeConfig{AllowUnspecifiedProduct: true})
	n.Normalize(row("Prices in $/MBF"), report)
	rec, ok := n.Normalize(row("White Pine", "250", "300"), report)
	if !ok {
		t.Fatal("productless row dropped despite AllowUnspecifiedProduct")
	}
	if rec.ProductType != UnspecifiedProduct {
		t.Errorf("product = %q, want %q", rec.ProductType, UnspecifiedProduct)
	}
}

func TestNormalizeRegionContext(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{State: "TN"})
	report := testReport()

	n.Normalize(row("East Tennessee", "Prices per MBF"), report)
	rec, ok := n.Normalize(row("Red Oak", "Sawlogs", "400", "500"), report)
	if !ok {
		t.Fatal("row not normalized")
	}
	if rec.Region != "East" {
		t.Errorf("region = %q, want East from section heading", rec.Region)
	}

	// A later heading replaces the context.
	n.Normalize(row("Middle Tennessee"), report)
	rec, _ = n.Normalize(row("Red Oak", "Sawlogs", "350", "450"), report)
	if rec.Region != "Middle" {
		t.Errorf("region = %q, want Middle after new heading", rec.Region)
	}
}

func TestNormalizeLongestAliasWins(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{})
	n.Normalize(row("$/MBF"), testReport())

	rec, ok := n.Normalize(row("Eastern White Pine", "Sawlogs", "200"), testReport())
	if !ok {
		t.Fatal("row not normalized")
	}
	if rec.Species != "White Pine" {
		t.Errorf("species = %q, want White Pine (not the bare Pine group)", rec.Species)
	}
}

func TestNormalizeSpeciesCellDigitsIgnored(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{})
	n.Normalize(row("$/MBF"), testReport())

	// The footnote marker in the species cell must not be read as a price.
	rec, ok := n.Normalize(row("White Pine 2", "Sawlogs", "250", "300"), testReport())
	if !ok {
		t.Fatal("row not normalized")
	}
	if rec.PriceLow != 250 || rec.PriceHigh != 300 {
		t.Errorf("prices = %.2f..%.2f, want 250..300", rec.PriceLow, rec.PriceHigh)
	}
}

func TestNormalizeDateTokensAreNotPrices(t *testing.T) {
	n := testNormalizer(t, types.NormalizeConfig{})
	n.Normalize(row("$/MBF"), testReport())

	// A stray window token outside the species cell must not leak its
	// digits into the price bounds.
	rec, ok := n.Normalize(row("White Pine", "Sawtimber 04-23", "250", "300"), testReport())
	if !ok {
		t.Fatal("row not normalized")
	}
	if rec.PriceLow != 250 || rec.PriceHigh != 300 {
		t.Errorf("prices = %.2f..%.2f, want 250..300", rec.PriceLow, rec.PriceHigh)
	}
}

// --- token matching ---

func TestContainsToken(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"$/ton", "ton", true},
		{"tons", "ton", false},
		{"cottonwood", "ton", false},
		{"price per ton delivered", "ton", true},
		{"white pine sawtimber", "white pine", true},
		{"whitewood", "white pine", false},
		{"", "ton", false},
		{"ton", "", false},
	}

	for _, tt := range tests {
		if got := containsToken(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("containsToken(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

// --- price parsing ---

func TestParsePrice(t *testing.T) {
	tests := []struct {
		tok    string
		want   float64
		wantOK bool
	}{
		{"250", 250, true},
		{"$250", 250, true},
		{"1,250.50", 1250.50, true},
		{"300*", 300, true},
		{"275.", 275, true},
		{"-40", 0, false},
		{"n/a", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.tok)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = %v, %v; want %v, %v", tt.tok, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		tok    string
		wantLo float64
		wantHi float64
		wantOK bool
	}{
		{"250-300", 250, 300, true},
		{"$250-$300", 250, 300, true},
		{"0.50-1.25", 0.50, 1.25, true},
		// zero-padded sides are date fragments, not prices
		{"04-23", 0, 0, false},
		{"250-09", 0, 0, false},
		{"a-b", 0, 0, false},
		{"250", 0, 0, false},
	}

	for _, tt := range tests {
		lo, hi, ok := parseRange(tt.tok)
		if ok != tt.wantOK || lo != tt.wantLo || hi != tt.wantHi {
			t.Errorf("parseRange(%q) = %v, %v, %v; want %v, %v, %v",
				tt.tok, lo, hi, ok, tt.wantLo, tt.wantHi, tt.wantOK)
		}
	}
}
