// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PeriodSource records how a report's period metadata was derived.
type PeriodSource string

const (
	// PeriodFromFilename means the filename matched a known naming convention.
	PeriodFromFilename PeriodSource = "filename"
	// PeriodFromText means the period was recovered from document text.
	PeriodFromText PeriodSource = "text"
	// PeriodUnknown means neither the filename nor the text yielded a period.
	PeriodUnknown PeriodSource = "unknown"
)

// ReportPeriod is the reporting window a document's prices are averaged over.
type ReportPeriod struct {
	// Year is the calendar year the window starts in; 0 when undecoded.
	Year int `json:"year" yaml:"year"`

	// Label is a human label for the window: a season name for month-pair
	// windows ("Fall", "Spring") or a quarter ("Q1".."Q4").
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Start and End bound the window. Zero when only the year is known.
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`

	// Source records where the period came from.
	Source PeriodSource `json:"source" yaml:"source"`
}

// Known reports whether a usable year was decoded.
func (p ReportPeriod) Known() bool {
	return p.Year != 0
}

// Dates renders the window as "YYYY-MM-DD..YYYY-MM-DD", or "" when the
// window bounds are unknown.
func (p ReportPeriod) Dates() string {
	if p.Start.IsZero() || p.End.IsZero() {
		return ""
	}
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}

// ReportFile is one source document discovered by the locator. It is
// read-only and lives only for the duration of a run.
type ReportFile struct {
	// Path is the document's location on disk.
	Path string `json:"path" yaml:"path"`

	// Period is the decoded reporting window.
	Period ReportPeriod `json:"period" yaml:"period"`

	// State is the state family the document belongs to, when configured.
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// RawRow is an untyped tabular row pulled out of a document: ordered text
// cells plus where they came from. Rows are consumed by the normalizer and
// discarded.
type RawRow struct {
	// Cells holds the row's text cells in left-to-right order.
	Cells []string `json:"cells" yaml:"cells"`

	// Page is the 1-based page the row was found on, 0 when the extraction
	// strategy cannot attribute pages.
	Page int `json:"page" yaml:"page"`

	// Line is the row's ordinal within the document, counting from 1.
	Line int `json:"line" yaml:"line"`
}

// Text joins the row's cells with single spaces, for keyword scanning.
func (r RawRow) Text() string {
	out := ""
	for i, c := range r.Cells {
		if i > 0 {
			out += " "
		}
		out += c
	}
	return out
}
