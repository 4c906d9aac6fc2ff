package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/lexicon"
)

func TestLoaderDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvCachePath, "")
	comp, err := (&Loader{}).Load()
	require.NoError(t, err)
	require.NotNil(t, comp.Resolver)
	require.NotNil(t, comp.Admission)
	require.NotNil(t, comp.Dropout)
	assert.Equal(t, "RJ", comp.Resolver.HomeState())
	assert.Same(t, lexicon.Neighborhoods(), comp.Resolver.Neighborhoods())
	assert.Nil(t, comp.Provider(), "no key, no provider")
}

func TestLoaderMergesCorrections(t *testing.T) {
	t.Setenv(EnvCachePath, "")
	dir := t.TempDir()
	extra := writeFile(t, dir, "neighborhoods.yaml", `
corrections:
  - canonical: jardim novo
    variants: [jd novo, jardim nova]
`)
	cfgPath := writeFile(t, dir, "evasao.yaml", "corrections:\n  neighborhoods: "+extra+"\n")

	comp, err := (&Loader{ConfigPath: cfgPath}).Load()
	require.NoError(t, err)

	got, ok := comp.Resolver.Neighborhoods().Lookup("jd novo")
	require.True(t, ok)
	assert.Equal(t, "jardim novo", got)
	_, ok = lexicon.Neighborhoods().Lookup("jd novo")
	assert.False(t, ok, "built-in table untouched")

	got, ok = comp.Resolver.Neighborhoods().Lookup("graiau")
	require.True(t, ok)
	assert.Equal(t, "grajaú", got)
}

func TestLoaderRejectsCollidingCorrections(t *testing.T) {
	dir := t.TempDir()
	extra := writeFile(t, dir, "neighborhoods.yaml", `
corrections:
  - canonical: somewhere else
    variants: [graiau]
`)
	cfgPath := writeFile(t, dir, "evasao.yaml", "corrections:\n  neighborhoods: "+extra+"\n")

	_, err := (&Loader{ConfigPath: cfgPath}).Load()
	assert.ErrorIs(t, err, internalerr.ErrVariantCollision)
}

func TestLoaderInvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "evasao.yaml", "concurrency: 0\n")
	_, err := (&Loader{ConfigPath: cfgPath}).Load()
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestLoaderEnvFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	// godotenv never overrides variables that are already set
	t.Setenv(EnvCachePath, "")
	require.NoError(t, os.Unsetenv(EnvCachePath))
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", EnvCachePath+"="+filepath.Join(dir, "from-env.db")+"\n")

	comp, err := (&Loader{EnvFile: envFile}).Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-env.db"), comp.Config.CachePath)
}

func TestLoaderMissingEnvFileIgnored(t *testing.T) {
	_, err := (&Loader{EnvFile: filepath.Join(t.TempDir(), ".env")}).Load()
	assert.NoError(t, err)
}

func TestComponentsEnricherOverSQLite(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvCachePath, filepath.Join(t.TempDir(), "nested", "cache.db"))
	comp, err := (&Loader{}).Load()
	require.NoError(t, err)

	ctx := context.Background()
	st, err := comp.OpenStore(ctx)
	require.NoError(t, err)
	defer st.Close()

	enr := comp.NewEnricher(comp.Provider(), st, prometheus.NewRegistry())
	ds := dataset.New([]string{dataset.ColNeighborhood, dataset.ColCity, dataset.ColState}, []dataset.Row{
		{dataset.ColNeighborhood: "urca", dataset.ColCity: "rio de janeiro", dataset.ColState: "RJ"},
	})
	stats, err := enr.Enrich(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Special)
	assert.Equal(t, 0.0, ds.Row(0)[dataset.ColDistanceKm])
}
