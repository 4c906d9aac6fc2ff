package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}`)

// ParseSemester returns 1 when the text contains "1", otherwise 2 when it
// contains "2", otherwise NaN. A leading four-digit year is removed first so
// that "2015/2" and "20152" yield 2.
func ParseSemester(v any) float64 {
	switch x := v.(type) {
	case float64:
		if x == 1 || x == 2 {
			return x
		}
		if math.IsNaN(x) {
			return math.NaN()
		}
	case int:
		return ParseSemester(float64(x))
	case nil:
		return math.NaN()
	}
	s := strings.ToLower(strings.TrimSpace(dataset.FormatValue(v)))
	s = yearPattern.ReplaceAllString(s, "")
	switch {
	case strings.Contains(s, "1"):
		return 1
	case strings.Contains(s, "2"):
		return 2
	default:
		return math.NaN()
	}
}

// ParseYear extracts a four-digit year from a period value.
func ParseYear(v any) (float64, bool) {
	m := yearPattern.FindString(dataset.FormatValue(v))
	if m == "" {
		return math.NaN(), false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return math.NaN(), false
	}
	return float64(y), true
}

// Period names the columns of one year/semester pair.
type Period struct {
	Combined string
	Year     string
	Semester string
}

// Periods are the admission and dropout pairs.
var Periods = []Period{
	{dataset.ColAdmissionPeriod, dataset.ColAdmissionYear, dataset.ColAdmissionSemester},
	{dataset.ColDropoutPeriod, dataset.ColDropoutYear, dataset.ColDropoutSemester},
}

// ParsePeriods splits each combined period column into year and semester
// and drops it. The semester is always taken from the period; the year is
// filled only where the year column is null. Without a combined column an
// existing semester column is normalized the same way.
func ParsePeriods(ds *dataset.Dataset) {
	for _, p := range Periods {
		switch {
		case ds.Has(p.Combined):
			ds.Ensure(p.Year)
			ds.Ensure(p.Semester)
			for _, row := range ds.Rows() {
				raw := row[p.Combined]
				row[p.Semester] = ParseSemester(raw)
				if row.IsNull(p.Year) {
					if y, ok := ParseYear(raw); ok {
						row[p.Year] = y
					}
				}
			}
			ds.Drop(p.Combined)
		case ds.Has(p.Semester):
			for _, row := range ds.Rows() {
				row[p.Semester] = ParseSemester(row[p.Semester])
			}
		}
	}
}
