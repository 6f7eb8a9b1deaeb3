// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mihiarc/stumpage/pkg/types"
)

// quarterPhrases maps quarter-naming phrases found in bulletin text to
// quarter numbers. Applied in order against lowercased text.
var quarterPhrases = []struct {
	re      *regexp.Regexp
	quarter int
}{
	{regexp.MustCompile(`(?:first|1st)\s+quarter[^\d]*(\d{4})`), 1},
	{regexp.MustCompile(`(?:second|2nd)\s+quarter[^\d]*(\d{4})`), 2},
	{regexp.MustCompile(`(?:third|3rd)\s+quarter[^\d]*(\d{4})`), 3},
	{regexp.MustCompile(`(?:fourth|4th)\s+quarter[^\d]*(\d{4})`), 4},
	{regexp.MustCompile(`q1[^\d]*(\d{4})`), 1},
	{regexp.MustCompile(`q2[^\d]*(\d{4})`), 2},
	{regexp.MustCompile(`q3[^\d]*(\d{4})`), 3},
	{regexp.MustCompile(`q4[^\d]*(\d{4})`), 4},
	{regexp.MustCompile(`january[^\d]*march[^\d]*(\d{4})`), 1},
	{regexp.MustCompile(`april[^\d]*june[^\d]*(\d{4})`), 2},
	{regexp.MustCompile(`july[^\d]*september[^\d]*(\d{4})`), 3},
	{regexp.MustCompile(`october[^\d]*december[^\d]*(\d{4})`), 4},
}

// monthRangeRe matches semiannual window phrases like
// "April 1, 2023 through September 30, 2023" or "October 2023 - March 2024".
var monthRangeRe = regexp.MustCompile(
	`(january|february|march|april|may|june|july|august|september|october|november|december)` +
		`[^a-z\d]{0,6}(?:\d{1,2}[,.]?\s*)?(\d{4})` +
		`\s*(?:through|thru|to|until|[-–])\s*` +
		`(january|february|march|april|may|june|july|august|september|october|november|december)` +
		`[^a-z\d]{0,6}(?:\d{1,2}[,.]?\s*)?(\d{4})`)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// FromText scans document text for a recognizable reporting-period phrase.
// It is the fallback for non-conforming filenames.
func FromText(text string) types.ReportPeriod {
	lower := strings.ToLower(text)

	for _, qp := range quarterPhrases {
		m := qp.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if year < types.MinYear || year > types.MaxYear {
			continue
		}
		return quarterPeriod(year, qp.quarter, types.PeriodFromText)
	}

	if m := monthRangeRe.FindStringSubmatch(lower); m != nil {
		startYear, _ := strconv.Atoi(m[2])
		endYear, _ := strconv.Atoi(m[4])
		if startYear >= types.MinYear && startYear <= types.MaxYear && endYear >= startYear {
			startMonth := monthNumbers[m[1]]
			endMonth := monthNumbers[m[3]]
			start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(endYear, time.Month(endMonth)+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			if !end.Before(start) {
				return types.ReportPeriod{
					Year:   startYear,
					Label:  seasonLabel(startMonth),
					Start:  start,
					End:    end,
					Source: types.PeriodFromText,
				}
			}
		}
	}

	return types.ReportPeriod{Source: types.PeriodUnknown}
}
