package clean

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

// dayFirstLayouts are tried in order; day precedes month.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"02.01.2006",
	"02/01/06",
	"2/1/06",
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Excel serial days outside this range are not treated as dates.
const (
	minSerial = 1
	maxSerial = 2958465 // 9999-12-31

	// Numeric text at or below this serial (1909-12-31) is left unparsed;
	// bare years like "2000" fall below it.
	minTextSerial = 3653
)

// ParseDate interprets a cell as a calendar date. Strings are parsed day
// first; numbers are Excel serial days, as is numeric text from 1910 on.
// ok is false when nothing fits.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return dateOnly(x), true
	case float64:
		return fromSerial(x)
	case int:
		return fromSerial(float64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dayFirstLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOnly(t), true
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > minTextSerial {
			return fromSerial(f)
		}
	}
	return time.Time{}, false
}

func fromSerial(f float64) (time.Time, bool) {
	if f < minSerial || f > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDates converts col to dates. Unparseable cells become null.
// It returns the number of cells that could not be parsed.
func ParseDates(ds *dataset.Dataset, col string) int {
	if !ds.Has(col) {
		return 0
	}
	failed := 0
	for _, row := range ds.Rows() {
		if row.IsNull(col) {
			row[col] = nil
			continue
		}
		t, ok := ParseDate(row[col])
		if !ok {
			row[col] = nil
			failed++
			continue
		}
		row[col] = t
	}
	return failed
}
