// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls raw tabular rows out of report documents.
// Extraction is strategy-based: a layout strategy clusters positioned text
// into rows and cells, a plain-text strategy splits page text on whitespace
// runs, and a pdftotext strategy shells out to the poppler tool. The auto
// strategy tries layout first and falls back to plain text.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Strategy produces rows from one document. Implementations must treat the
// document as read-only and return a fresh scanner per call.
type Strategy interface {
	// Name identifies the strategy in logs and the inspect output.
	Name() string

	// Scan opens the document and returns a one-pass row scanner. A
	// malformed or unreadable document fails here (or on the scanner's
	// Err) with a recoverable error; the batch driver logs and moves on.
	Scan(path string) (RowScanner, error)
}

// RowScanner iterates over extracted rows, bufio.Scanner-shaped. It is
// finite, single-pass, and not restartable without re-opening the document.
type RowScanner interface {
	// Next advances to the next row, returning false at end of document
	// or on error.
	Next() bool

	// Row returns the current row. Valid only after a true Next.
	Row() types.RawRow

	// Err returns the first error encountered, or nil on clean end.
	Err() error
}

// ForConfig builds the strategy selected by cfg.
func ForConfig(cfg types.ExtractionConfig) (Strategy, error) {
	switch cfg.Strategy {
	case types.StrategyAuto, "":
		return &AutoStrategy{Primary: &LayoutStrategy{}, Fallback: &TextStrategy{}}, nil
	case types.StrategyLayout:
		return &LayoutStrategy{}, nil
	case types.StrategyText:
		return &TextStrategy{}, nil
	case types.StrategyPdftotext:
		return NewPdftotext(cfg.PdftotextPath), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", cfg.Strategy)
	}
}

// sliceScanner adapts a fully materialized row slice to RowScanner.
type sliceScanner struct {
	rows []types.RawRow
	pos  int
	err  error
}

func (s *sliceScanner) Next() bool {
	if s.err != nil || s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceScanner) Row() types.RawRow { return s.rows[s.pos-1] }

func (s *sliceScanner) Err() error { return s.err }

// cellSplitRe separates cells on tabs or runs of two or more spaces.
var cellSplitRe = regexp.MustCompile(`\t+| {2,}`)

// splitCells breaks a text line into trimmed cells. Single spaces stay
// inside a cell so multi-word names survive.
func splitCells(line string) []string {
	var cells []string
	for _, c := range cellSplitRe.Split(strings.TrimSpace(line), -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// rowsFromText converts page text into rows, one per non-blank line.
// Line numbering continues from startLine; the final ordinal is returned so
// callers keep numbering contiguous across pages.
func rowsFromText(text string, page, startLine int) ([]types.RawRow, int) {
	var rows []types.RawRow
	line := startLine
	for _, raw := range strings.Split(text, "\n") {
		cells := splitCells(raw)
		if len(cells) == 0 {
			continue
		}
		line++
		rows = append(rows, types.RawRow{Cells: cells, Page: page, Line: line})
	}
	return rows, line
}
