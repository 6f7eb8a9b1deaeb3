// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate discovers candidate report documents in an input directory.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mihiarc/stumpage/pkg/types"
)

// defaultExtensions is used when the locator config lists none.
var defaultExtensions = []string{".pdf"}

// Reports scans cfg.InputDir for report documents and returns them in
// filename order. A missing directory or a directory with no candidates is
// not an error: the caller reports the empty batch and the run completes.
func Reports(cfg types.LocatorConfig) ([]types.ReportFile, error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}

	var reports []types.ReportFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !matchesExtension(entry.Name(), exts) {
			continue
		}
		reports = append(reports, types.ReportFile{
			Path: filepath.Join(cfg.InputDir, entry.Name()),
		})
	}

	// Filename order keeps reruns deterministic.
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	return reports, nil
}

func matchesExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
