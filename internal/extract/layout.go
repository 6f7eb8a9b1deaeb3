// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Row grouping and cell splitting tolerances, in PDF points.
const (
	// rowYTolerance groups positioned text fragments into one row when
	// their baselines are within this distance.
	rowYTolerance = 2.0

	// minCellGap is the smallest horizontal gap treated as a column
	// boundary regardless of font size.
	minCellGap = 6.0
)

// LayoutStrategy extracts rows from the document's embedded text layout:
// positioned fragments are grouped into rows by baseline and split into
// cells where the horizontal gap exceeds the column threshold.
type LayoutStrategy struct{}

// Name implements Strategy.
func (*LayoutStrategy) Name() string { return "layout" }

// Scan implements Strategy.
func (*LayoutStrategy) Scan(path string) (RowScanner, error) {
	reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &layoutScanner{reader: reader, numPages: reader.NumPage()}, nil
}

// openReader opens a PDF, converting the parser's panics on malformed
// cross-reference tables into errors so one bad document cannot take down
// a batch run.
func openReader(path string) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("opening %s: %v", path, r)
		}
	}()
	reader, err = pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return reader, nil
}

type layoutScanner struct {
	reader   *pdf.Reader
	numPages int
	page     int // last page consumed, 1-based
	line     int
	queue    []types.RawRow
	current  types.RawRow
	err      error
}

func (s *layoutScanner) Next() bool {
	if s.err != nil {
		return false
	}
	for len(s.queue) == 0 {
		if s.page >= s.numPages {
			return false
		}
		s.page++
		rows, err := s.pageRows(s.page)
		if err != nil {
			s.err = err
			return false
		}
		s.queue = rows
	}
	s.current = s.queue[0]
	s.queue = s.queue[1:]
	return true
}

func (s *layoutScanner) Row() types.RawRow { return s.current }

func (s *layoutScanner) Err() error { return s.err }

// pageRows extracts one page's rows. Pages with no text content (scanned
// images) contribute nothing.
func (s *layoutScanner) pageRows(pageNum int) (rows []types.RawRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d: %v", pageNum, r)
		}
	}()

	p := s.reader.Page(pageNum)
	if p.V.IsNull() {
		return nil, nil
	}

	content := p.Content()
	if len(content.Text) == 0 {
		return nil, nil
	}

	for _, group := range groupByBaseline(content.Text) {
		cells := clusterCells(group)
		if len(cells) == 0 {
			continue
		}
		s.line++
		rows = append(rows, types.RawRow{Cells: cells, Page: pageNum, Line: s.line})
	}
	return rows, nil
}

// groupByBaseline sorts fragments top-to-bottom and batches those whose Y
// coordinates fall within rowYTolerance into one row, left-to-right.
func groupByBaseline(texts []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	// PDF Y grows upward, so descending Y is reading order.
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var groups [][]pdf.Text
	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		n := len(groups)
		if n > 0 && groups[n-1][0].Y-t.Y <= rowYTolerance {
			groups[n-1] = append(groups[n-1], t)
			continue
		}
		groups = append(groups, []pdf.Text{t})
	}

	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].X < g[j].X })
	}
	return groups
}

// clusterCells joins a row's fragments into cells, starting a new cell
// wherever the horizontal gap exceeds the column threshold for the
// preceding fragment's font size.
func clusterCells(row []pdf.Text) []string {
	var cells []string
	var cell strings.Builder
	var prev pdf.Text

	flush := func() {
		c := strings.TrimSpace(cell.String())
		if c != "" {
			cells = append(cells, c)
		}
		cell.Reset()
	}

	for i, t := range row {
		if i > 0 {
			gap := t.X - (prev.X + prev.W)
			if gap > cellGapThreshold(prev.FontSize) {
				flush()
			} else if gap > 0.2*prev.FontSize {
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(t.S)
		prev = t
	}
	flush()
	return cells
}

func cellGapThreshold(fontSize float64) float64 {
	threshold := 1.4 * fontSize
	if threshold < minCellGap {
		threshold = minCellGap
	}
	return threshold
}
