// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/mihiarc/stumpage/internal/extract"
	"github.com/mihiarc/stumpage/internal/normalize"
	"github.com/mihiarc/stumpage/pkg/types"
)

// --- test doubles ---

// fakeScanner replays canned rows.
type fakeScanner struct {
	rows []types.RawRow
	pos  int
	err  error
}

func (s *fakeScanner) Next() bool {
	if s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeScanner) Row() types.RawRow { return s.rows[s.pos-1] }

func (s *fakeScanner) Err() error { return s.err }

// fakeStrategy maps document paths to canned rows or failures. An entry in
// scanErrs surfaces from the scanner's Err after its rows are consumed,
// like a document that goes bad partway through.
type fakeStrategy struct {
	rows     map[string][]types.RawRow
	errs     map[string]error
	scanErrs map[string]error
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) Scan(path string) (extract.RowScanner, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return &fakeScanner{rows: f.rows[path], err: f.scanErrs[path]}, nil
}

var _ extract.Strategy = (*fakeStrategy)(nil)

func dataRows(cells ...[]string) []types.RawRow {
	rows := make([]types.RawRow, len(cells))
	for i, c := range cells {
		rows[i] = types.RawRow{Cells: c, Page: 1, Line: i + 1}
	}
	return rows
}

func testConfig() types.NormalizeConfig {
	return types.NormalizeConfig{State: "TN"}
}

// --- runs ---

func TestRunSingleReport(t *testing.T) {
	path := "reports/avg-stumpage-04-23-09-23.pdf"
	strat := &fakeStrategy{rows: map[string][]types.RawRow{
		path: dataRows(
			[]string{"Statewide Average Prices", "$/MBF"},
			[]string{"White Pine", "Sawtimber", "250", "300"},
			[]string{"Red Oak", "Sawtimber", "400", "500"},
		),
	}}

	var buf strings.Builder
	result := Run([]types.ReportFile{{Path: path}}, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Processed != 1 || result.Failed != 0 || result.Empty != 0 {
		t.Fatalf("result = %+v", result)
	}
	if got := len(result.Dataset.Records); got != 2 {
		t.Fatalf("got %d records, want 2", got)
	}
	if result.Dataset.RowsExamined != 3 {
		t.Errorf("rows examined = %d, want 3", result.Dataset.RowsExamined)
	}

	rec := result.Dataset.Records[0]
	if rec.Year != 2023 || rec.Period != "Fall" || rec.State != "TN" {
		t.Errorf("record = %+v", rec)
	}
	if !strings.Contains(buf.String(), "parsed:") {
		t.Errorf("status output missing parsed line:\n%s", buf.String())
	}
}

func TestRunToleratesBadReport(t *testing.T) {
	good := "reports/avg-stumpage-04-23-09-23.pdf"
	bad := "reports/corrupt-04-22-09-22.pdf"
	strat := &fakeStrategy{
		rows: map[string][]types.RawRow{
			good: dataRows(
				[]string{"$/MBF"},
				[]string{"White Pine", "Sawtimber", "250", "300"},
			),
		},
		errs: map[string]error{bad: errors.New("malformed xref table")},
	}

	var buf strings.Builder
	reports := []types.ReportFile{{Path: bad}, {Path: good}}
	result := Run(reports, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Failed != 1 || result.Processed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Dataset.Records) != 1 {
		t.Errorf("good report's records lost: %d", len(result.Dataset.Records))
	}
	if !strings.Contains(buf.String(), "failed:") {
		t.Errorf("status output missing failed line:\n%s", buf.String())
	}
}

func TestRunMidstreamFailureKeepsNoRecords(t *testing.T) {
	// A document whose scanner errors after yielding valid rows must
	// contribute nothing: failed documents are all-or-nothing.
	path := "reports/avg-stumpage-04-23-09-23.pdf"
	strat := &fakeStrategy{
		rows: map[string][]types.RawRow{
			path: dataRows(
				[]string{"$/MBF"},
				[]string{"White Pine", "Sawtimber", "250", "300"},
			),
		},
		scanErrs: map[string]error{path: errors.New("bad page stream")},
	}

	var buf strings.Builder
	result := Run([]types.ReportFile{{Path: path}}, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Failed != 1 || result.Processed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Dataset.Records) != 0 {
		t.Errorf("failed document's records kept: %d", len(result.Dataset.Records))
	}
	if result.Dataset.RowsExamined != 0 || result.Dataset.RowsAccepted != 0 {
		t.Errorf("failed document's counters kept: examined=%d accepted=%d",
			result.Dataset.RowsExamined, result.Dataset.RowsAccepted)
	}
	if !strings.Contains(buf.String(), "failed:") {
		t.Errorf("status output:\n%s", buf.String())
	}
}

func TestRunMidstreamFailureSparesOtherReports(t *testing.T) {
	good := "reports/avg-stumpage-04-22-09-22.pdf"
	bad := "reports/avg-stumpage-04-23-09-23.pdf"
	rows := dataRows(
		[]string{"$/MBF"},
		[]string{"White Pine", "Sawtimber", "250", "300"},
	)
	strat := &fakeStrategy{
		rows:     map[string][]types.RawRow{good: rows, bad: rows},
		scanErrs: map[string]error{bad: errors.New("bad page stream")},
	}

	var buf strings.Builder
	reports := []types.ReportFile{{Path: bad}, {Path: good}}
	result := Run(reports, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Failed != 1 || result.Processed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Dataset.Records) != 1 {
		t.Fatalf("got %d records, want the good document's 1", len(result.Dataset.Records))
	}
	if result.Dataset.Records[0].Year != 2022 {
		t.Errorf("surviving record year = %d, want 2022", result.Dataset.Records[0].Year)
	}
	if result.Dataset.RowsExamined != 2 {
		t.Errorf("rows examined = %d, want the good document's 2", result.Dataset.RowsExamined)
	}
}

func TestRunRerunsAreByteIdentical(t *testing.T) {
	a := "reports/avg-stumpage-04-23-09-23.pdf"
	b := "reports/avg-stumpage-04-22-09-22.pdf"
	rows := dataRows(
		[]string{"East Tennessee", "$/MBF"},
		[]string{"White Pine", "Sawtimber", "250", "300"},
		[]string{"Red Oak", "Sawtimber", "400", "500"},
	)

	runOnce := func() string {
		t.Helper()
		strat := &fakeStrategy{rows: map[string][]types.RawRow{a: rows, b: rows}}
		reports := []types.ReportFile{{Path: a}, {Path: b}}

		var status strings.Builder
		result := Run(reports, strat, normalize.Default("TN"), testConfig(), &status)

		var out strings.Builder
		if err := result.Dataset.WriteCSV(&out); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}

	first := runOnce()
	second := runOnce()

	if strings.Count(first, "\n") != 5 {
		t.Fatalf("expected header plus 4 records:\n%s", first)
	}
	if first != second {
		t.Errorf("reruns differ:\n--- first ---\n%s--- second ---\n%s", first, second)
	}
}

func TestRunEmptyReport(t *testing.T) {
	path := "reports/scanned-04-23-09-23.pdf"
	strat := &fakeStrategy{rows: map[string][]types.RawRow{path: nil}}

	var buf strings.Builder
	result := Run([]types.ReportFile{{Path: path}}, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Empty != 1 || result.Processed != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(buf.String(), "no extractable content") {
		t.Errorf("status output:\n%s", buf.String())
	}
}

func TestRunPeriodFromText(t *testing.T) {
	// Nonconforming filename; the period comes from the bulletin's own text.
	path := "reports/bulletin.pdf"
	strat := &fakeStrategy{rows: map[string][]types.RawRow{
		path: dataRows(
			[]string{"Tennessee Forest Products Bulletin"},
			[]string{"First Quarter 2017"},
			[]string{"Average Prices", "$/MBF"},
			[]string{"Red Oak", "Sawtimber", "400", "500"},
		),
	}}

	var buf strings.Builder
	result := Run([]types.ReportFile{{Path: path}}, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Undated != 0 {
		t.Fatalf("period not recovered from text: %+v", result)
	}
	if len(result.Dataset.Records) != 1 {
		t.Fatalf("got %d records", len(result.Dataset.Records))
	}
	rec := result.Dataset.Records[0]
	if rec.Year != 2017 || rec.Period != "Q1" {
		t.Errorf("record period = %d %s, want 2017 Q1", rec.Year, rec.Period)
	}
}

func TestRunUndatedReport(t *testing.T) {
	// No period anywhere: rows are examined but no record survives
	// validation, and the run flags the document.
	path := "reports/undated.pdf"
	strat := &fakeStrategy{rows: map[string][]types.RawRow{
		path: dataRows(
			[]string{"$/MBF"},
			[]string{"Red Oak", "Sawtimber", "400", "500"},
		),
	}}

	var buf strings.Builder
	result := Run([]types.ReportFile{{Path: path}}, strat, normalize.Default("TN"), testConfig(), &buf)

	if result.Undated != 1 || result.Processed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Dataset.Records) != 0 {
		t.Errorf("undated records kept: %d", len(result.Dataset.Records))
	}
	if result.Dataset.RowsExamined != 2 || result.Dataset.RowsInvalid != 1 {
		t.Errorf("examined=%d invalid=%d", result.Dataset.RowsExamined, result.Dataset.RowsInvalid)
	}
}

func TestRunSortsAcrossReports(t *testing.T) {
	a := "reports/avg-stumpage-04-23-09-23.pdf"
	b := "reports/avg-stumpage-04-22-09-22.pdf"
	rows := dataRows(
		[]string{"$/MBF"},
		[]string{"Red Oak", "Sawtimber", "400", "500"},
	)
	strat := &fakeStrategy{rows: map[string][]types.RawRow{a: rows, b: rows}}

	var buf strings.Builder
	reports := []types.ReportFile{{Path: a}, {Path: b}}
	result := Run(reports, strat, normalize.Default("TN"), testConfig(), &buf)

	if len(result.Dataset.Records) != 2 {
		t.Fatalf("got %d records", len(result.Dataset.Records))
	}
	if result.Dataset.Records[0].Year != 2022 || result.Dataset.Records[1].Year != 2023 {
		t.Errorf("records not sorted by year: %d then %d",
			result.Dataset.Records[0].Year, result.Dataset.Records[1].Year)
	}
}
