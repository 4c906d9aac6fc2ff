package clean

import (
	"math"
	"strconv"
	"strings"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

// NumericColumns are coerced to float64.
var NumericColumns = []string{
	dataset.ColGPA,
	dataset.ColAdmissionYear,
	dataset.ColDropoutYear,
	dataset.ColAdmissionSemester,
	dataset.ColDropoutSemester,
}

// ToFloat converts a cell to a number. Comma decimal separators are
// accepted; anything unparseable is NaN.
func ToFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// CoerceNumeric converts the given columns to float64 in place and returns
// the number of non-null cells that became NaN.
func CoerceNumeric(ds *dataset.Dataset, cols ...string) int {
	lost := 0
	for _, col := range cols {
		if !ds.Has(col) {
			continue
		}
		for _, row := range ds.Rows() {
			wasNull := row.IsNull(col)
			f := ToFloat(row[col])
			if math.IsNaN(f) && !wasNull {
				lost++
			}
			row[col] = f
		}
	}
	return lost
}

// BucketGPA rounds to the nearest half point. Halfway cases of the doubled
// value round to even: 7.25 gives 7.0 and 7.75 gives 8.0.
func BucketGPA(gpa float64) float64 {
	return math.RoundToEven(gpa*2) / 2
}

// GPABuckets writes gpa_bucket when the gpa column exists.
func GPABuckets(ds *dataset.Dataset) {
	if !ds.Has(dataset.ColGPA) {
		return
	}
	ds.Ensure(dataset.ColGPABucket)
	for _, row := range ds.Rows() {
		row[dataset.ColGPABucket] = BucketGPA(row.Float(dataset.ColGPA))
	}
}
