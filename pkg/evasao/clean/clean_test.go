package clean

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDropColumns(t *testing.T) {
	ds := dataset.New([]string{"Seq.", "sex", " SEQ. "}, []dataset.Row{{"Seq.": "1", "sex": "F"}})
	dropped := DropColumns(ds, DroppedColumns)
	assert.ElementsMatch(t, []string{"Seq.", " SEQ. "}, dropped)
	assert.Equal(t, []string{"sex"}, ds.Columns())
	assert.NotContains(t, ds.Row(0), "Seq.")

	assert.Empty(t, DropColumns(ds, DroppedColumns))
}

func TestFillNulls(t *testing.T) {
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColCity}, []dataset.Row{
		{dataset.ColNeighborhood: "tijuca"},
		{dataset.ColNeighborhood: "  ", dataset.ColCity: "niterói"},
	})
	n := FillNulls(ds, dataset.ColNeighborhood, dataset.ColCity, dataset.ColState)
	assert.Equal(t, 2, n)
	assert.Equal(t, dataset.UnknownValue, ds.Row(0)[dataset.ColCity])
	assert.Equal(t, dataset.UnknownValue, ds.Row(1)[dataset.ColNeighborhood])
	assert.False(t, ds.Has(dataset.ColState))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   any
		want time.Time
		ok   bool
	}{
		{"03/04/1998", date(1998, time.April, 3), true},
		{"3/4/1998", date(1998, time.April, 3), true},
		{"03-04-1998", date(1998, time.April, 3), true},
		{"1998-04-03", date(1998, time.April, 3), true},
		{"03/04/1998 00:00:00", date(1998, time.April, 3), true},
		{36526.0, date(2000, time.January, 1), true},
		{"36526", date(2000, time.January, 1), true},
		{date(1990, time.May, 5).Add(5 * time.Hour), date(1990, time.May, 5), true},
		{"31/02/1998", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
		{nil, time.Time{}, false},
		{-4.0, time.Time{}, false},
		{"2000", time.Time{}, false},
		{"3653", time.Time{}, false},
		{"3654", date(1910, time.January, 1), true},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %v", tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "input %v: got %v", tt.in, got)
		}
	}
}

func TestParseDatesKeepsRows(t *testing.T) {
	ds := dataset.New([]string{dataset.ColBirthDate}, []dataset.Row{
		{dataset.ColBirthDate: "15/08/2000"},
		{dataset.ColBirthDate: "garbage"},
		{},
	})
	failed := ParseDates(ds, dataset.ColBirthDate)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 3, ds.Len())

	got, ok := ds.Row(0).Date(dataset.ColBirthDate)
	require.True(t, ok)
	assert.Equal(t, date(2000, time.August, 15), got)
	assert.Nil(t, ds.Row(1)[dataset.ColBirthDate])
}

func TestParseSemester(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"1", 1},
		{"2", 2},
		{"1º semestre", 1},
		{"2º Semestre", 2},
		{"2015/2", 2},
		{"20152", 2},
		{"20161", 1},
		{20152.0, 2},
		{"2012.1", 1},
		{2.0, 2},
		{1, 1},
		{"12", 1},
		{"", math.NaN()},
		{"primeiro", math.NaN()},
		{nil, math.NaN()},
		{math.NaN(), math.NaN()},
	}
	for _, tt := range tests {
		got := ParseSemester(tt.in)
		if math.IsNaN(tt.want) {
			assert.True(t, math.IsNaN(got), "input %v: got %v", tt.in, got)
			continue
		}
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestParsePeriods(t *testing.T) {
	ds := dataset.New([]string{dataset.ColAdmissionPeriod, dataset.ColAdmissionYear, dataset.ColDropoutSemester}, []dataset.Row{
		{dataset.ColAdmissionPeriod: "2015/2", dataset.ColDropoutSemester: "1º"},
		{dataset.ColAdmissionPeriod: "1", dataset.ColAdmissionYear: "2016"},
		{},
		{dataset.ColAdmissionPeriod: "20172"},
	})
	ParsePeriods(ds)

	assert.False(t, ds.Has(dataset.ColAdmissionPeriod))
	assert.True(t, ds.Has(dataset.ColAdmissionSemester))

	r0 := ds.Row(0)
	assert.Equal(t, 2.0, r0[dataset.ColAdmissionSemester])
	assert.Equal(t, 2015.0, r0[dataset.ColAdmissionYear])
	assert.Equal(t, 1.0, r0[dataset.ColDropoutSemester])

	r1 := ds.Row(1)
	assert.Equal(t, 1.0, r1[dataset.ColAdmissionSemester])
	assert.Equal(t, "2016", r1[dataset.ColAdmissionYear], "existing year is kept")

	assert.True(t, math.IsNaN(ds.Row(2).Float(dataset.ColAdmissionSemester)))

	r3 := ds.Row(3)
	assert.Equal(t, 2.0, r3[dataset.ColAdmissionSemester])
	assert.Equal(t, 2017.0, r3[dataset.ColAdmissionYear])
}

func TestCoerceNumeric(t *testing.T) {
	ds := dataset.New([]string{dataset.ColGPA}, []dataset.Row{
		{dataset.ColGPA: "7,5"},
		{dataset.ColGPA: " 8.25 "},
		{dataset.ColGPA: "n/a"},
		{},
		{dataset.ColGPA: 6.0},
	})
	lost := CoerceNumeric(ds, NumericColumns...)
	assert.Equal(t, 1, lost)

	rows := ds.Rows()
	assert.Equal(t, 7.5, rows[0].Float(dataset.ColGPA))
	assert.Equal(t, 8.25, rows[1].Float(dataset.ColGPA))
	assert.True(t, math.IsNaN(rows[2].Float(dataset.ColGPA)))
	assert.True(t, math.IsNaN(rows[3].Float(dataset.ColGPA)))
	assert.Equal(t, 6.0, rows[4].Float(dataset.ColGPA))
}

func TestBucketGPA(t *testing.T) {
	tests := map[float64]float64{
		7.3:  7.5,
		7.2:  7.0,
		7.25: 7.0,
		7.75: 8.0,
		0:    0,
		10:   10,
		9.9:  10,
	}
	for in, want := range tests {
		assert.Equal(t, want, BucketGPA(in), "input %v", in)
	}
	assert.True(t, math.IsNaN(BucketGPA(math.NaN())))
}

func TestGPABuckets(t *testing.T) {
	ds := dataset.New([]string{dataset.ColGPA}, []dataset.Row{{dataset.ColGPA: 7.3}})
	GPABuckets(ds)
	assert.Equal(t, 7.5, ds.Row(0)[dataset.ColGPABucket])
}

func TestAgeBracketBoundaries(t *testing.T) {
	tests := []struct {
		age  float64
		want string
		ok   bool
	}{
		{0, BracketUnder20, true},
		{19, BracketUnder20, true},
		{20, Bracket20to24, true},
		{24, Bracket20to24, true},
		{25, Bracket25to29, true},
		{34, Bracket30to34, true},
		{39, Bracket35to39, true},
		{40, Bracket40Plus, true},
		{200, Bracket40Plus, true},
		{201, "", false},
		{-1, "", false},
		{math.NaN(), "", false},
	}
	for _, tt := range tests {
		got, ok := AgeBracket(tt.age)
		assert.Equal(t, tt.ok, ok, "age %v", tt.age)
		assert.Equal(t, tt.want, got, "age %v", tt.age)
	}
}

func TestAgeAtAdmission(t *testing.T) {
	ds := dataset.New([]string{dataset.ColBirthDate, dataset.ColAdmissionYear, dataset.ColAdmissionSemester}, []dataset.Row{
		{dataset.ColBirthDate: date(2000, time.March, 1), dataset.ColAdmissionYear: 2019.0, dataset.ColAdmissionSemester: 1.0},
		{dataset.ColBirthDate: date(2000, time.March, 1), dataset.ColAdmissionYear: 2020.0, dataset.ColAdmissionSemester: 2.0},
		{dataset.ColAdmissionYear: 2020.0, dataset.ColAdmissionSemester: 1.0},
	})
	AgeAtAdmission(ds)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 18.0, ds.Row(0)[dataset.ColAgeAtAdmission])
	assert.Equal(t, BracketUnder20, ds.Row(0)[dataset.ColAgeBracket])
	assert.Equal(t, 20.0, ds.Row(1)[dataset.ColAgeAtAdmission])
	assert.Equal(t, Bracket20to24, ds.Row(1)[dataset.ColAgeBracket])
	assert.True(t, math.IsNaN(ds.Row(2).Float(dataset.ColAgeAtAdmission)))
	assert.Nil(t, ds.Row(2)[dataset.ColAgeBracket])
}

func TestCourseDuration(t *testing.T) {
	row := dataset.Row{
		dataset.ColAdmissionYear: 2015.0, dataset.ColAdmissionSemester: 1.0,
		dataset.ColDropoutYear: 2019.0, dataset.ColDropoutSemester: 1.0,
	}
	assert.InDelta(t, 4.0, CourseDuration(row), 0.01)

	row[dataset.ColDropoutSemester] = 2.0
	assert.InDelta(t, 4.5, CourseDuration(row), 0.01)

	row[dataset.ColDropoutSemester] = math.NaN()
	assert.True(t, math.IsNaN(CourseDuration(row)))

	delete(row, dataset.ColAdmissionYear)
	assert.True(t, math.IsNaN(CourseDuration(row)))
}

func TestCourseDurationsNeedsBothYears(t *testing.T) {
	ds := dataset.New([]string{dataset.ColAdmissionYear}, []dataset.Row{{dataset.ColAdmissionYear: 2015.0}})
	CourseDurations(ds)
	assert.False(t, ds.Has(dataset.ColCourseDuration))
}
