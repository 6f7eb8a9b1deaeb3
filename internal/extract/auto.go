// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/mihiarc/stumpage/pkg/types"

// AutoStrategy runs the primary strategy and falls back to the secondary
// when the primary yields no rows or fails partway. The primary's output
// has to be materialized to make that call, so Scan drains it up front;
// report documents are small enough that this does not matter.
type AutoStrategy struct {
	Primary  Strategy
	Fallback Strategy
}

// Name implements Strategy.
func (s *AutoStrategy) Name() string {
	return s.Primary.Name() + "+" + s.Fallback.Name()
}

// Scan implements Strategy.
func (s *AutoStrategy) Scan(path string) (RowScanner, error) {
	scanner, err := s.Primary.Scan(path)
	if err != nil {
		return s.Fallback.Scan(path)
	}

	var rows []types.RawRow
	for scanner.Next() {
		rows = append(rows, scanner.Row())
	}
	if scanner.Err() == nil && len(rows) > 0 {
		return &sliceScanner{rows: rows}, nil
	}

	return s.Fallback.Scan(path)
}
