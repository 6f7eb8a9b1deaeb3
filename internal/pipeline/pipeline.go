// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a batch run: decode each report's period, extract
// its rows, normalize them, and accumulate the dataset. Per-document
// failures are logged and skipped; one bad report never aborts a batch.
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mihiarc/stumpage/internal/dataset"
	"github.com/mihiarc/stumpage/internal/extract"
	"github.com/mihiarc/stumpage/internal/normalize"
	"github.com/mihiarc/stumpage/internal/period"
	"github.com/mihiarc/stumpage/pkg/types"
)

// periodScanRows bounds how many leading rows are scanned for a period
// phrase when the filename convention does not match.
const periodScanRows = 40

// Result holds the outcome of a batch run.
type Result struct {
	Dataset *dataset.Dataset

	Processed int
	Failed    int
	Empty     int
	Undated   int
}

// Total returns the number of reports the run looked at.
func (r Result) Total() int {
	return r.Processed + r.Failed + r.Empty
}

// Run processes every report sequentially and returns the accumulated
// dataset. Per-report status lines go to w; the returned error is reserved
// for conditions that prevent the run from proceeding at all, which the
// pipeline itself has none of.
func Run(reports []types.ReportFile, strat extract.Strategy, vocab normalize.Vocabulary, cfg types.NormalizeConfig, w io.Writer) Result {
	log := zap.L().With(zap.String("component", "pipeline"))

	result := Result{Dataset: &dataset.Dataset{}}

	for _, report := range reports {
		name := filepath.Base(report.Path)

		outcome, err := processReport(&report, strat, vocab, cfg, result.Dataset)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			log.Warn("report unreadable", zap.String("file", name), zap.Error(err))
			continue
		}

		if outcome.rows == 0 {
			result.Empty++
			fmt.Fprintf(w, "empty:   %s (no extractable content)\n", name)
			log.Info("no extractable content", zap.String("file", name))
			continue
		}

		result.Processed++
		if !report.Period.Known() {
			result.Undated++
			log.Warn("period undecoded, rows dropped at validation",
				zap.String("file", name), zap.Int("rows", outcome.rows))
		}
		fmt.Fprintf(w, "parsed:  %s (%d records from %d rows)\n", name, outcome.records, outcome.rows)
	}

	result.Dataset.Sort()
	return result
}

type reportOutcome struct {
	rows    int
	records int
}

// processReport runs one document through extraction and normalization.
// The report's period is completed here: when the filename did not decode,
// the leading rows are scanned for a recognizable period phrase. Records
// accumulate in a per-document buffer and merge into the dataset only when
// the scan finishes cleanly, so a document that fails mid-stream
// contributes nothing.
func processReport(report *types.ReportFile, strat extract.Strategy, vocab normalize.Vocabulary, cfg types.NormalizeConfig, ds *dataset.Dataset) (reportOutcome, error) {
	report.Period = period.FromFilename(report.Path)

	scanner, err := strat.Scan(report.Path)
	if err != nil {
		return reportOutcome{}, err
	}

	norm := normalize.New(vocab, cfg)
	var buf dataset.Dataset
	var out reportOutcome

	for scanner.Next() {
		row := scanner.Row()
		out.rows++
		buf.RowsExamined++

		if !report.Period.Known() && row.Line <= periodScanRows {
			if p := period.FromText(row.Text()); p.Known() {
				report.Period = p
			}
		}

		record, ok := norm.Normalize(row, *report)
		if !ok {
			continue
		}
		if err := buf.Add(record); err != nil {
			zap.L().Debug("record rejected",
				zap.String("file", filepath.Base(report.Path)),
				zap.Int("line", row.Line),
				zap.Error(err))
			continue
		}
		out.records++
	}
	if err := scanner.Err(); err != nil {
		return reportOutcome{}, err
	}

	ds.Merge(buf)
	return out, nil
}
