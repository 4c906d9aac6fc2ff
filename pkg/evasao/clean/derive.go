package clean

import (
	"math"
	"time"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

// SemesterStart is the first day of the semester: January for semester 1,
// July otherwise.
func SemesterStart(year int, semester float64) time.Time {
	month := time.July
	if semester == 1 {
		month = time.January
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) float64 {
	return math.Floor(to.Sub(from).Hours() / 24)
}

// AgeAt returns whole years between birth and at, counting 365-day years.
func AgeAt(birth, at time.Time) float64 {
	return math.Floor(daysBetween(birth, at) / 365)
}

// Age bracket labels.
const (
	BracketUnder20 = "<20"
	Bracket20to24  = "20-24"
	Bracket25to29  = "25-29"
	Bracket30to34  = "30-34"
	Bracket35to39  = "35-39"
	Bracket40Plus  = "40+"
)

var brackets = []struct {
	upper float64
	label string
}{
	{19, BracketUnder20},
	{24, Bracket20to24},
	{29, Bracket25to29},
	{34, Bracket30to34},
	{39, Bracket35to39},
	{200, Bracket40Plus},
}

// AgeBracket returns the bracket for an age in [0, 200]. Other ages,
// including NaN, have no bracket.
func AgeBracket(age float64) (string, bool) {
	if math.IsNaN(age) || age < 0 {
		return "", false
	}
	for _, b := range brackets {
		if age <= b.upper {
			return b.label, true
		}
	}
	return "", false
}

// AgeAtAdmission writes age_at_admission and age_bracket for rows with a
// birth date and an admission year. Other rows get NaN and a null bracket;
// no row is removed.
func AgeAtAdmission(ds *dataset.Dataset) {
	if !ds.Has(dataset.ColBirthDate) {
		return
	}
	ds.Ensure(dataset.ColAgeAtAdmission)
	ds.Ensure(dataset.ColAgeBracket)
	for _, row := range ds.Rows() {
		age := math.NaN()
		birth, hasBirth := row.Date(dataset.ColBirthDate)
		year, hasYear := row.Int(dataset.ColAdmissionYear)
		if hasBirth && hasYear {
			age = AgeAt(birth, SemesterStart(year, row.Float(dataset.ColAdmissionSemester)))
		}
		row[dataset.ColAgeAtAdmission] = age
		if label, ok := AgeBracket(age); ok {
			row[dataset.ColAgeBracket] = label
		} else {
			row[dataset.ColAgeBracket] = nil
		}
	}
}

// CourseDuration returns the years between admission and dropout semester
// starts, rounded to two decimals. Any missing part yields NaN.
func CourseDuration(row dataset.Row) float64 {
	ay, ok1 := row.Int(dataset.ColAdmissionYear)
	as, ok2 := row.Int(dataset.ColAdmissionSemester)
	dy, ok3 := row.Int(dataset.ColDropoutYear)
	dsem, ok4 := row.Int(dataset.ColDropoutSemester)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return math.NaN()
	}
	start := SemesterStart(ay, float64(as))
	end := SemesterStart(dy, float64(dsem))
	return math.Round(daysBetween(start, end)/365.25*100) / 100
}

// CourseDurations writes course_duration_years when both year columns exist.
func CourseDurations(ds *dataset.Dataset) {
	if !ds.Has(dataset.ColAdmissionYear) || !ds.Has(dataset.ColDropoutYear) {
		return
	}
	ds.Ensure(dataset.ColCourseDuration)
	for _, row := range ds.Rows() {
		row[dataset.ColCourseDuration] = CourseDuration(row)
	}
}
