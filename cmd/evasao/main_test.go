package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/evasao/pkg/evasao/config"
)

const input = "SEXO,DT_NASCIMENTO,CRA,FORMA_INGRESSO,FORMA_EVASAO,PERIODO_INGRESSO,BAIRRO,CIDADE,ESTADO\n" +
	"F,15/03/2000,7.3,SISU Ampla Concorrência,Sem evasão,2018/1,Tijuka,Rio de Janeiro,RJ\n" +
	"M,01/08/1995,5.2,Vestibular,ABA - Abandono do curso,2012/2,Urca,Rio de Janeiro,RJ\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunWritesOutputsAndMetrics(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte(input), 0o644))

	opts := options{
		input:       in,
		output:      filepath.Join(dir, "out.csv"),
		cachePath:   filepath.Join(dir, "cache.db"),
		metricsFile: filepath.Join(dir, "evasao.prom"),
		suggestions: filepath.Join(dir, "draft.yaml"),
		logLevel:    "error",
	}
	require.NoError(t, run(context.Background(), opts))

	out, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "geographic_zone")
	assert.Contains(t, string(out), "distance_km")

	metrics, err := os.ReadFile(opts.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "evasao_pipeline_rows_processed_total 2")

	draft, err := os.ReadFile(opts.suggestions)
	require.NoError(t, err)
	assert.Contains(t, string(draft), "tijuca")
	assert.FileExists(t, opts.cachePath)
}

func TestBuildEngineNoDistance(t *testing.T) {
	dir := t.TempDir()
	opts := options{cachePath: filepath.Join(dir, "cache.db"), noDistance: true}
	engine, cleanup, err := buildEngine(context.Background(), opts, quietLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, engine)
	assert.NoFileExists(t, opts.cachePath)
}

func TestBuildEngineBadConfig(t *testing.T) {
	_, _, err := buildEngine(context.Background(), options{configPath: filepath.Join(t.TempDir(), "missing.yaml")}, quietLogger(), nil)
	assert.Error(t, err)
}

func TestNewLoggerLevels(t *testing.T) {
	assert.True(t, newLogger("debug").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, newLogger("warn").Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, newLogger("bogus").Enabled(context.Background(), slog.LevelInfo))
}
