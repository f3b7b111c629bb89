package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGettersPanicBeforeLoad(t *testing.T) {
	_loaded = nil
	assert.Panics(t, func() { Http() })
	assert.Panics(t, func() { Get() })
}

func TestLoadDefault(t *testing.T) {
	LoadDefault()

	assert.Equal(t, "info", Logger().Level)
	assert.Equal(t, "json", Logger().Format)
	assert.Equal(t, "0.0.0.0:8080", Http().Addr())
	assert.Equal(t, int64(1048576), Http().MaxRequestSize)
	assert.Equal(t, 30, Http().ShutdownTimeout)
	assert.True(t, Cors().AllowAll())
	assert.NoError(t, Get().Validate())
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
common:
  log:
    level: debug
  http:
    port: 9090
  cors:
    allowed_origins:
      - https://example.com
`)

	require.NoError(t, LoadFromFile(path))

	assert.Equal(t, "debug", Logger().Level)
	assert.Equal(t, "json", Logger().Format, "unset keys keep their defaults")
	assert.Equal(t, "0.0.0.0:9090", Http().Addr())
	assert.False(t, Cors().AllowAll())
	assert.Equal(t, []string{"https://example.com"}, Cors().AllowedOrigins)
}

func TestLoadFromFileErrors(t *testing.T) {
	assert.Error(t, LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, LoadFromFile(writeConfigFile(t, "common: [unclosed")))
	assert.Error(t, LoadFromFile(writeConfigFile(t, "common:\n  http:\n    port: 70000\n")))
}

func TestApplyEnvOverrides(t *testing.T) {
	LoadDefault()
	t.Setenv("ACCOUNTS_HTTP_HOST", "127.0.0.1")
	t.Setenv("ACCOUNTS_HTTP_PORT", "9999")
	t.Setenv("ACCOUNTS_HTTP_MAX_REQUEST_SIZE", "2048")
	t.Setenv("ACCOUNTS_LOG_LEVEL", "warn")
	t.Setenv("ACCOUNTS_LOG_FORMAT", "console")
	t.Setenv("ACCOUNTS_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	ApplyEnvOverrides()

	assert.Equal(t, "127.0.0.1:9999", Http().Addr())
	assert.Equal(t, int64(2048), Http().MaxRequestSize)
	assert.Equal(t, "warn", Logger().Level)
	assert.Equal(t, "console", Logger().Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Cors().AllowedOrigins)
}

func TestApplyEnvOverridesIgnoresBadNumbers(t *testing.T) {
	LoadDefault()
	t.Setenv("ACCOUNTS_HTTP_PORT", "not-a-port")
	t.Setenv("ACCOUNTS_HTTP_MAX_REQUEST_SIZE", "-1")

	ApplyEnvOverrides()

	assert.Equal(t, 8080, Http().Port)
	assert.Equal(t, int64(1048576), Http().MaxRequestSize)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfigFile(t, "common:\n  http:\n    port: 9090\n    host: 10.0.0.1\n")
	t.Setenv("ACCOUNTS_CONFIG_FILE", path)
	t.Setenv("ACCOUNTS_HTTP_PORT", "7070")

	require.NoError(t, Load())

	assert.Equal(t, "10.0.0.1:7070", Http().Addr(), "env beats file, file beats defaults")
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("ACCOUNTS_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, Load())

	assert.Equal(t, "0.0.0.0:8080", Http().Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACCOUNTS_HTTP_PORT", "6060")
	require.NoError(t, LoadFromEnv())
	assert.Equal(t, 6060, Http().Port)
}

func TestEnvOverridesAreValidated(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"port out of range", "ACCOUNTS_HTTP_PORT", "99999", "http.port out of range: 99999"},
		{"origin without scheme", "ACCOUNTS_CORS_ALLOWED_ORIGINS", "app.example", `"app.example" must be "*" or an http:// or https:// origin`},
		{"unsupported origin scheme", "ACCOUNTS_CORS_ALLOWED_ORIGINS", "https://ok.example,ftp://files.example", `"ftp://files.example"`},
		{"unknown log level", "ACCOUNTS_LOG_LEVEL", "verbose", "log.level"},
		{"unknown log format", "ACCOUNTS_LOG_FORMAT", "xml", "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			// the invalid values are not left loaded
			assert.Equal(t, defaultConfig(), *Get())
			assert.NoError(t, Get().Validate())
		})
	}
}

func TestLoadRejectsInvalidEnvOverFile(t *testing.T) {
	path := writeConfigFile(t, "common:\n  http:\n    port: 9090\n")
	t.Setenv("ACCOUNTS_CONFIG_FILE", path)
	t.Setenv("ACCOUNTS_HTTP_PORT", "0")

	err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port out of range: 0")
	assert.Equal(t, 8080, Http().Port)
}

func TestValidateOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		valid   bool
	}{
		{"wildcard", []string{"*"}, true},
		{"https origin", []string{"https://app.example"}, true},
		{"http origin with port", []string{"http://localhost:3000"}, true},
		{"bare host", []string{"app.example"}, false},
		{"scheme without host", []string{"https://"}, false},
		{"one bad among good", []string{"https://app.example", "app.example"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Common.Cors.AllowedOrigins = tt.origins
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLoadFromFileRejectsBadOrigin(t *testing.T) {
	path := writeConfigFile(t, "common:\n  cors:\n    allowed_origins: [app.example]\n")
	err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors.allowed_origins")
}
