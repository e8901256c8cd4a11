package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leca/dt-restcountries/internal/countries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"DT_TARGET", "DT_HTTP_TIMEOUT", "DT_EXPECTED_COUNT", "DT_TARGET_CODE", "DT_TARGET_LANGUAGE", "DT_LISTEN_ADDR"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, countries.DefaultEndpoint, cfg.Target)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 195, cfg.ExpectedCount)
	assert.Equal(t, "ZA", cfg.TargetCode)
	assert.Equal(t, "South African Sign Language", cfg.TargetLanguage)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DT_TARGET", "http://localhost:9999/v3.1/all")
	t.Setenv("DT_HTTP_TIMEOUT", "1m30s")
	t.Setenv("DT_EXPECTED_COUNT", "250")
	t.Setenv("DT_TARGET_CODE", "US")

	cfg := Load()
	assert.Equal(t, "http://localhost:9999/v3.1/all", cfg.Target)
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 250, cfg.ExpectedCount)

	opts := cfg.ContractOptions()
	assert.Equal(t, 250, opts.ExpectedCount)
	assert.Equal(t, "US", opts.CountryCode)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DT_SCHEMA_PATH=/etc/countries.json\n"), 0o644))
	chdir(t, dir)
	t.Setenv("DT_SCHEMA_PATH", "")
	require.NoError(t, os.Unsetenv("DT_SCHEMA_PATH"))

	cfg := Load()
	assert.Equal(t, "/etc/countries.json", cfg.SchemaPath)
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadMalformedDotEnvIsLogged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o644))
	assert.Error(t, loadDotEnv(filepath.Join(dir, ".env")))

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	chdir(t, dir)
	t.Setenv("DT_TARGET_CODE", "")

	cfg := Load()
	assert.Equal(t, "ZA", cfg.TargetCode)
	assert.Contains(t, logs.String(), "ignoring .env")
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("DT_TEST_INT", "12x")
	assert.Equal(t, 7, getEnvInt("DT_TEST_INT", 7))
}

func TestGetEnvDurationSeconds(t *testing.T) {
	t.Setenv("DT_TEST_DURATION", "45")
	assert.Equal(t, 45*time.Second, getEnvDuration("DT_TEST_DURATION", time.Second))

	t.Setenv("DT_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvDuration("DT_TEST_DURATION", time.Second))
}
