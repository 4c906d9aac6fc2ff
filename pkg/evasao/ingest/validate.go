package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
)

// RequiredColumns must be present before the pipeline runs.
var RequiredColumns = []string{
	dataset.ColSex,
	dataset.ColBirthDate,
	dataset.ColGPA,
	dataset.ColAdmissionRaw,
	dataset.ColDropoutRaw,
}

// OptionalColumns are read when present.
var OptionalColumns = []string{
	dataset.ColAdmissionPeriod,
	dataset.ColDropoutPeriod,
	dataset.ColAdmissionYear,
	dataset.ColAdmissionSemester,
	dataset.ColDropoutYear,
	dataset.ColDropoutSemester,
	dataset.ColNeighborhood,
	dataset.ColCity,
	dataset.ColState,
	dataset.ColAddress,
}

// ValidationError lists every missing required column.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match internalerr.ErrMissingColumns.
func (e *ValidationError) Unwrap() error {
	return internalerr.ErrMissingColumns
}

// Validate checks the required columns. It reports all of them at once.
func Validate(ds *dataset.Dataset) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !ds.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// addressPattern captures the trailing "neighborhood, city, UF" of a
// free-text address; segments may be separated by commas or hyphens.
var addressPattern = regexp.MustCompile(`([^,\-]+)[,\-]\s*([^,\-]+)[,\-]\s*([A-Z]{2})$`)

// ParseAddress splits a free-text address into neighborhood, city and state.
func ParseAddress(address string) (neighborhood, city, state string, ok bool) {
	m := addressPattern.FindStringSubmatch(strings.TrimSpace(address))
	if m == nil {
		return "", "", "", false
	}
	title := cases.Title(language.BrazilianPortuguese)
	neighborhood = title.String(strings.TrimSpace(m[1]))
	city = title.String(strings.TrimSpace(m[2]))
	state = strings.TrimSpace(m[3])
	if neighborhood == "" || city == "" {
		return "", "", "", false
	}
	return neighborhood, city, state, true
}

// ExtractAddresses fills neighborhood, city and state from the address
// column on rows where all three are blank. The columns are created when
// the input has none of them. Rows whose address does not parse keep
// nulls. It returns the number of rows filled.
func ExtractAddresses(ds *dataset.Dataset) int {
	if !ds.Has(dataset.ColAddress) {
		return 0
	}
	filled := 0
	for i, row := range ds.Rows() {
		if !row.IsNull(dataset.ColNeighborhood) || !row.IsNull(dataset.ColCity) || !row.IsNull(dataset.ColState) {
			continue
		}
		addr, ok := row.Str(dataset.ColAddress)
		if !ok {
			continue
		}
		n, c, s, ok := ParseAddress(addr)
		if !ok {
			continue
		}
		ds.Set(i, dataset.ColNeighborhood, n)
		ds.Set(i, dataset.ColCity, c)
		ds.Set(i, dataset.ColState, s)
		filled++
	}
	if filled > 0 || !hasAnyLocation(ds) {
		ds.Ensure(dataset.ColNeighborhood)
		ds.Ensure(dataset.ColCity)
		ds.Ensure(dataset.ColState)
	}
	return filled
}

func hasAnyLocation(ds *dataset.Dataset) bool {
	return ds.Has(dataset.ColNeighborhood) || ds.Has(dataset.ColCity) || ds.Has(dataset.ColState)
}
