// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/dslipak/pdf"

	"github.com/mihiarc/stumpage/pkg/types"
)

// TextStrategy extracts each page's plain text and splits lines into cells
// on whitespace runs. It is the fallback for documents whose layout
// information does not cluster into usable columns.
type TextStrategy struct{}

// Name implements Strategy.
func (*TextStrategy) Name() string { return "text" }

// Scan implements Strategy.
func (*TextStrategy) Scan(path string) (RowScanner, error) {
	reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &textScanner{reader: reader, numPages: reader.NumPage()}, nil
}

type textScanner struct {
	reader   *pdf.Reader
	numPages int
	page     int
	line     int
	queue    []types.RawRow
	current  types.RawRow
	err      error
}

func (s *textScanner) Next() bool {
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

func (s *textScanner) Row() types.RawRow { return s.current }

func (s *textScanner) Err() error { return s.err }

func (s *textScanner) pageRows(pageNum int) (rows []types.RawRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d: %v", pageNum, r)
		}
	}()

	p := s.reader.Page(pageNum)
	if p.V.IsNull() {
		return nil, nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("extracting text from page %d: %w", pageNum, err)
	}

	rows, s.line = rowsFromText(text, pageNum, s.line)
	return rows, nil
}
