package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 10, cfg.TokenExpirationDays)
	assert.Equal(t, "local", cfg.BlobBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Empty(t, cfg.JWTSecretKey, "secret key must not have a default")
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("CARSAPI_HTTP_ADDR", ":9999")
	t.Setenv("CARSAPI_JWT_KEY", "env-secret")
	t.Setenv("CARSAPI_TOKEN_EXPIRATION_DAYS", "3")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-secret", cfg.JWTSecretKey)
	assert.Equal(t, 3, cfg.TokenExpirationDays)
	assert.Equal(t, "local", cfg.BlobBackend, "untouched fields keep defaults")
}

func TestParseEnv_IgnoresUnparsableDays(t *testing.T) {
	t.Setenv("CARSAPI_TOKEN_EXPIRATION_DAYS", "ten")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 10, cfg.TokenExpirationDays)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"carsapi", "-a", ":7070", "-s", "flag-secret", "-x", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "flag-secret", cfg.JWTSecretKey)
	assert.Equal(t, 5, cfg.TokenExpirationDays)
}

func TestParseJSON_PartialFileOverridesOnlyNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/conf.json"
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database_dsn": "postgres://json",
		"jwt_secret_key": "json-secret",
		"token_expiration_days": 7
	}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"carsapi", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.JWTSecretKey)
	assert.Equal(t, 7, cfg.TokenExpirationDays)
	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP, "fields absent from the file keep defaults")
}
