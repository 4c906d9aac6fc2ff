package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

func TestLexiconAddGroup(t *testing.T) {
	lex := New("test")
	require.NoError(t, lex.AddGroup("vila isabel", []string{"vila isabe", "Vila Izabel"}))

	assert.Equal(t, "vila isabel", lex.Canonical("VILA IZABEL"))
	assert.Equal(t, "vila isabel", lex.Canonical("  vila isabe"))
	assert.Equal(t, "vila isabel", lex.Canonical("Vila Isabel"))
	assert.Equal(t, "tijuca", lex.Canonical("Tijuca"), "unknown values come back folded")
	assert.Equal(t, []string{"vila isabel", "vila isabe", "vila izabel"}, lex.Variants("vila isabel"))
}

func TestLexiconCollision(t *testing.T) {
	lex := New("test")
	require.NoError(t, lex.AddGroup("rio de janeiro", []string{"rio"}))

	err := lex.AddGroup("rio das ostras", []string{"Rio"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrVariantCollision))

	_, ok := lex.groups["rio das ostras"]
	assert.False(t, ok, "failed group must not be half-registered")
	assert.Equal(t, "rio de janeiro", lex.Canonical("rio"))
}

func TestLexiconExtendGroup(t *testing.T) {
	lex := New("test")
	require.NoError(t, lex.AddGroup("tijuca", []string{"tijuka"}))
	require.NoError(t, lex.AddGroup("tijuca", []string{"tjuca", "tijuka"}))

	assert.Equal(t, []string{"tijuca", "tijuka", "tjuca"}, lex.Variants("tijuca"))
	assert.Equal(t, []string{"tijuca"}, lex.Canonicals())
}

func TestLexiconCanonicalIsIdempotent(t *testing.T) {
	for _, lex := range []*Lexicon{Neighborhoods(), Cities()} {
		for _, c := range lex.Canonicals() {
			for _, v := range lex.Variants(c) {
				once := lex.Canonical(v)
				assert.Equal(t, c, once, "%s: variant %q", lex.Name(), v)
				assert.Equal(t, once, lex.Canonical(once), "%s: canonical %q", lex.Name(), c)
			}
		}
	}
}

func TestBuiltinTablesMapEveryVariantSpelling(t *testing.T) {
	lex := Neighborhoods()
	for _, g := range neighborhoodCorrections {
		for _, v := range g.variants {
			assert.Equal(t, g.canonical, lex.Canonical(v), v)
			assert.Equal(t, g.canonical, lex.Canonical(textnorm.Fold(v)), v)
		}
	}
	assert.Equal(t, "praça da bandeira", lex.Canonical("PRAÇA DA BANDEIRA"))
	assert.Equal(t, "irajá", lex.Canonical("IrajÃ"))
	assert.Equal(t, "rio de janeiro", Cities().Canonical("R.J."))
	assert.Equal(t, "duque de caxias", Cities().Canonical("Caxias"))
}

func TestBuiltinTablesAreShared(t *testing.T) {
	assert.Same(t, Neighborhoods(), Neighborhoods())
	cp := Neighborhoods().Clone()
	require.NoError(t, cp.AddGroup("nova zelandia", nil))
	_, ok := Neighborhoods().Lookup("nova zelandia")
	assert.False(t, ok, "clone must not write through")
}

func TestLexiconMergeCollision(t *testing.T) {
	extra := New("extra")
	require.NoError(t, extra.AddGroup("barra de guaratiba", []string{"barra"}))

	cp := Neighborhoods().Clone()
	err := cp.Merge(extra)
	assert.ErrorIs(t, err, internalerr.ErrVariantCollision)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	content := `corrections:
  - canonical: vila valqueire
    variants: [valqueire, vila valqueirre]
  - canonical: méier
    variants: [meier, mier]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadFromYAML("extra", path)
	require.NoError(t, err)
	assert.Equal(t, Stats{Groups: 2, Variants: 5}, lex.Stats())
	assert.Equal(t, "méier", lex.Canonical("MIER"))
}

func TestLoadFromYAMLCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := `corrections:
  - canonical: a
    variants: [x]
  - canonical: b
    variants: [X]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFromYAML("bad", path)
	assert.ErrorIs(t, err, internalerr.ErrVariantCollision)
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	_, err := LoadFromYAML("missing", "/nonexistent/extra.yaml")
	assert.Error(t, err)
}
