// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mihiarc/stumpage/pkg/types"
)

// PdftotextStrategy shells out to the poppler pdftotext tool with -layout,
// which preserves column alignment well enough for whitespace-run cell
// splitting. Useful for documents the embedded parser cannot read.
type PdftotextStrategy struct {
	binPath string
}

// NewPdftotext builds the strategy. An empty binPath means "pdftotext" on
// the PATH.
func NewPdftotext(binPath string) *PdftotextStrategy {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdftotextStrategy{binPath: binPath}
}

// Name implements Strategy.
func (*PdftotextStrategy) Name() string { return "pdftotext" }

// Scan implements Strategy. The tool runs to completion up front; the
// returned scanner iterates the captured output.
func (s *PdftotextStrategy) Scan(path string) (RowScanner, error) {
	cmd := exec.Command(s.binPath, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %v: %s",
			path, err, strings.TrimSpace(stderr.String()))
	}

	// pdftotext separates pages with form feeds.
	var rows []types.RawRow
	line := 0
	for i, pageText := range strings.Split(stdout.String(), "\f") {
		var pageRows []types.RawRow
		pageRows, line = rowsFromText(pageText, i+1, line)
		rows = append(rows, pageRows...)
	}
	return &sliceScanner{rows: rows}, nil
}
