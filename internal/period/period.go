// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package period decodes reporting-period metadata from report filenames,
// with a fallback scan of document text.
package period

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mihiarc/stumpage/pkg/types"
)

// monthPairRe matches the semiannual naming convention: two MM-YY tokens
// bounding the reporting window, e.g. "avg-stumpage-04-23-09-23.pdf".
var monthPairRe = regexp.MustCompile(`(\d{1,2})-(\d{2})\D+?(\d{1,2})-(\d{2})`)

// quarterRes match quarterly bulletin names in either token order,
// e.g. "TFPB_2017_Q1.pdf" or "Q1_2017_bulletin.pdf". The last pattern
// covers the bare numeric suffix some bulletins use, "TFPB_2017_1.pdf"
// or "2017-1.pdf".
var quarterRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{4})\D*?q([1-4])`),
	regexp.MustCompile(`(?i)q([1-4])\D*?(\d{4})`),
	regexp.MustCompile(`(\d{4})[-_]([1-4])$`),
}

// FromFilename decodes a reporting period from a report's file name.
// When no convention matches, the returned period has Source
// PeriodUnknown and the caller should try FromText against document text.
func FromFilename(path string) types.ReportPeriod {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if m := monthPairRe.FindStringSubmatch(stem); m != nil {
		p, ok := fromMonthPair(m)
		if ok {
			return p
		}
	}

	if m := quarterRes[0].FindStringSubmatch(stem); m != nil {
		if p, ok := fromQuarter(m[1], m[2]); ok {
			return p
		}
	}
	if m := quarterRes[1].FindStringSubmatch(stem); m != nil {
		if p, ok := fromQuarter(m[2], m[1]); ok {
			return p
		}
	}
	if m := quarterRes[2].FindStringSubmatch(stem); m != nil {
		if p, ok := fromQuarter(m[1], m[2]); ok {
			return p
		}
	}

	return types.ReportPeriod{Source: types.PeriodUnknown}
}

// fromMonthPair builds a period from MM-YY start and end tokens. Two-digit
// years are anchored to the 2000s; the window straddling a year boundary is
// assigned the start year.
func fromMonthPair(m []string) (types.ReportPeriod, bool) {
	startMonth, _ := strconv.Atoi(m[1])
	startYear, _ := strconv.Atoi(m[2])
	endMonth, _ := strconv.Atoi(m[3])
	endYear, _ := strconv.Atoi(m[4])

	if startMonth < 1 || startMonth > 12 || endMonth < 1 || endMonth > 12 {
		return types.ReportPeriod{}, false
	}

	startYear += 2000
	endYear += 2000
	if endYear < startYear {
		return types.ReportPeriod{}, false
	}

	start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.Month(endMonth)+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	if end.Before(start) {
		return types.ReportPeriod{}, false
	}

	return types.ReportPeriod{
		Year:   startYear,
		Label:  seasonLabel(startMonth),
		Start:  start,
		End:    end,
		Source: types.PeriodFromFilename,
	}, true
}

// seasonLabel names a semiannual window by its start month: the April
// window is published as the Fall report, the October window as Spring.
func seasonLabel(startMonth int) string {
	if startMonth >= 4 && startMonth <= 9 {
		return "Fall"
	}
	return "Spring"
}

func fromQuarter(yearTok, quarterTok string) (types.ReportPeriod, bool) {
	year, _ := strconv.Atoi(yearTok)
	quarter, _ := strconv.Atoi(quarterTok)
	if year < types.MinYear || year > types.MaxYear || quarter < 1 || quarter > 4 {
		return types.ReportPeriod{}, false
	}
	return quarterPeriod(year, quarter, types.PeriodFromFilename), true
}

func quarterPeriod(year, quarter int, source types.PeriodSource) types.ReportPeriod {
	startMonth := time.Month((quarter-1)*3 + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return types.ReportPeriod{
		Year:   year,
		Label:  "Q" + strconv.Itoa(quarter),
		Start:  start,
		End:    end,
		Source: source,
	}
}
