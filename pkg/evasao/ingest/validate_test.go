package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
)

func TestValidateListsEveryMissingColumn(t *testing.T) {
	ds := dataset.New([]string{dataset.ColSex, dataset.ColGPA}, nil)
	err := Validate(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrMissingColumns))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{dataset.ColBirthDate, dataset.ColAdmissionRaw, dataset.ColDropoutRaw}, verr.Missing)
	assert.Contains(t, err.Error(), "birth_date, admission_method_raw, dropout_method_raw")
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(dataset.New(RequiredColumns, nil)))
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in                        string
		neighborhood, city, state string
		ok                        bool
	}{
		{"Rua Sorocaba 100, Botafogo, rio de janeiro, RJ", "Botafogo", "Rio De Janeiro", "RJ", true},
		{"Av. Brasil 500 - Penha - Rio de Janeiro - RJ", "Penha", "Rio De Janeiro", "RJ", true},
		{"icaraí, niterói - RJ", "Icaraí", "Niterói", "RJ", true},
		{"Rua sem cidade", "", "", "", false},
		{"Tijuca, Rio de Janeiro, rj", "", "", "", false},
		{"", "", "", "", false},
	}
	for _, tt := range tests {
		n, c, s, ok := ParseAddress(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.neighborhood, n, tt.in)
		assert.Equal(t, tt.city, c, tt.in)
		assert.Equal(t, tt.state, s, tt.in)
	}
}

func TestExtractAddressesColumnsAbsent(t *testing.T) {
	ds := dataset.New([]string{dataset.ColAddress}, []dataset.Row{
		{dataset.ColAddress: "Rua A, Méier, Rio de Janeiro, RJ"},
		{dataset.ColAddress: "unparseable"},
	})
	assert.Equal(t, 1, ExtractAddresses(ds))
	assert.True(t, ds.Has(dataset.ColNeighborhood))
	assert.Equal(t, "Méier", ds.Row(0)[dataset.ColNeighborhood])
	assert.True(t, ds.Row(1).IsNull(dataset.ColNeighborhood))
}

func TestExtractAddressesKeepsExistingLocation(t *testing.T) {
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColAddress}, []dataset.Row{
		{dataset.ColNeighborhood: "Tijuca", dataset.ColAddress: "Rua A, Méier, Rio de Janeiro, RJ"},
	})
	assert.Zero(t, ExtractAddresses(ds))
	assert.Equal(t, "Tijuca", ds.Row(0)[dataset.ColNeighborhood])
}
