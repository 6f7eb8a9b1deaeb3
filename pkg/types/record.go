// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the stumpage price pipeline.
package types

import (
	"fmt"
	"strings"
)

// Year bounds for plausibility checks. Reports outside this window are
// assumed to be decoding artifacts.
const (
	MinYear = 1900
	MaxYear = 2100
)

// PriceRecord is the canonical output unit of the pipeline: one species /
// product price observation from one reporting period.
type PriceRecord struct {
	// State is the two-letter postal code of the report's state family
	// (e.g. "TN"). Empty when the source family is not configured.
	State string `json:"state,omitempty" yaml:"state,omitempty"`

	// Year anchors the reporting period. A window straddling two calendar
	// years is assigned its start year.
	Year int `json:"year" yaml:"year"`

	// Period is a free-text label such as "Fall" or "Q1".
	Period string `json:"period,omitempty" yaml:"period,omitempty"`

	// Region is a named subdivision of the state. Empty means statewide.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Species is the canonical species or species-group name.
	Species string `json:"species" yaml:"species"`

	// ProductType is the canonical timber product category.
	ProductType string `json:"product_type" yaml:"product_type"`

	// PriceLow and PriceHigh bound the reported price range. A report that
	// publishes a single figure has PriceLow == PriceHigh.
	PriceLow  float64 `json:"price_low" yaml:"price_low"`
	PriceHigh float64 `json:"price_high" yaml:"price_high"`

	// Unit is the canonical pricing unit ("MBF", "cord", "ton", ...).
	Unit string `json:"unit" yaml:"unit"`

	// PeriodDates is the reporting window in "YYYY-MM-DD..YYYY-MM-DD" form,
	// empty when only the year is known.
	PeriodDates string `json:"period_dates,omitempty" yaml:"period_dates,omitempty"`

	// SourceFile is the base name of the report the record came from.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// Validate reports whether the record satisfies the output invariants.
func (r PriceRecord) Validate() error {
	if r.Year < MinYear || r.Year > MaxYear {
		return fmt.Errorf("implausible year %d", r.Year)
	}
	if strings.TrimSpace(r.Species) == "" {
		return fmt.Errorf("empty species")
	}
	if strings.TrimSpace(r.ProductType) == "" {
		return fmt.Errorf("empty product type")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return fmt.Errorf("empty unit")
	}
	if r.PriceLow < 0 || r.PriceHigh < 0 {
		return fmt.Errorf("negative price %.2f..%.2f", r.PriceLow, r.PriceHigh)
	}
	if r.PriceLow > r.PriceHigh {
		return fmt.Errorf("inverted price range %.2f..%.2f", r.PriceLow, r.PriceHigh)
	}
	return nil
}

// Key returns the natural identity of the record, used for deduplication
// when ingesting into the price index.
func (r PriceRecord) Key() string {
	return strings.Join([]string{
		r.State,
		fmt.Sprintf("%d", r.Year),
		r.Period,
		r.Region,
		r.Species,
		r.ProductType,
		r.Unit,
	}, "|")
}
