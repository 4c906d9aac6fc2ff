package dataset

import (
	"strings"

	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// Column names of the cleaned dataset. Downstream consumers address the
// dataset by these exact strings.
const (
	ColSex               = "sex"
	ColBirthDate         = "birth_date"
	ColGPA               = "gpa"
	ColGPABucket         = "gpa_bucket"
	ColAdmissionRaw      = "admission_method_raw"
	ColDropoutRaw        = "dropout_method_raw"
	ColAdmissionCategory = "admission_method_category"
	ColDropoutCategory   = "dropout_method_category"
	ColDropoutReason     = "dropout_reason"
	ColAdmissionPeriod   = "admission_period"
	ColDropoutPeriod     = "dropout_period"
	ColAdmissionYear     = "admission_year"
	ColAdmissionSemester = "admission_semester"
	ColDropoutYear       = "dropout_year"
	ColDropoutSemester   = "dropout_semester"
	ColNeighborhood      = "neighborhood"
	ColCity              = "city"
	ColState             = "state"
	ColAddress           = "address"
	ColZone              = "geographic_zone"
	ColDistanceKm        = "distance_km"
	ColTravelDuration    = "travel_duration_text"
	ColDeparture         = "departure_time_for_18h_arrival"
	ColAgeAtAdmission    = "age_at_admission"
	ColAgeBracket        = "age_bracket"
	ColCourseDuration    = "course_duration_years"
	ColLegacySequence    = "Seq."
)

// UnknownValue fills blank neighborhood, city and state cells.
const UnknownValue = "Unknown"

// legacyHeaders maps the folded headers of the institution's spreadsheets to
// canonical column names.
var legacyHeaders = map[string]string{
	"sexo":              ColSex,
	"dt_nascimento":     ColBirthDate,
	"data_nascimento":   ColBirthDate,
	"cra":               ColGPA,
	"forma_ingresso":    ColAdmissionRaw,
	"forma_evasao":      ColDropoutRaw,
	"periodo_ingresso":  ColAdmissionPeriod,
	"periodo_evasao":    ColDropoutPeriod,
	"ano_ingresso":      ColAdmissionYear,
	"ano_evasao":        ColDropoutYear,
	"semestre_ingresso": ColAdmissionSemester,
	"semestre_evasao":   ColDropoutSemester,
	"bairro":            ColNeighborhood,
	"cidade":            ColCity,
	"estado":            ColState,
	"uf":                ColState,
	"endereco":          ColAddress,
}

var canonicalColumns = map[string]struct{}{}

func init() {
	for _, c := range []string{
		ColSex, ColBirthDate, ColGPA, ColGPABucket, ColAdmissionRaw, ColDropoutRaw,
		ColAdmissionCategory, ColDropoutCategory, ColDropoutReason,
		ColAdmissionPeriod, ColDropoutPeriod, ColAdmissionYear, ColAdmissionSemester,
		ColDropoutYear, ColDropoutSemester, ColNeighborhood, ColCity, ColState,
		ColAddress, ColZone, ColDistanceKm, ColTravelDuration, ColDeparture,
		ColAgeAtAdmission, ColAgeBracket, ColCourseDuration,
	} {
		canonicalColumns[c] = struct{}{}
	}
}

// CanonicalColumn maps an input header to its canonical column name.
// Headers that are neither canonical nor legacy aliases are returned as-is.
func CanonicalColumn(header string) string {
	key := textnorm.Fold(header)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if _, ok := canonicalColumns[key]; ok {
		return key
	}
	if c, ok := legacyHeaders[key]; ok {
		return c
	}
	return strings.TrimSpace(header)
}
