package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacy/attestation-verifier/nullifier"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvHost, EnvPort, EnvForceMock, EnvNullifierSalt, EnvUniqueSessionTokens,
		EnvLogLevel, EnvAllowedOrigins, EnvReadTimeoutSec, EnvWriteTimeoutSec, EnvIdleTimeoutSec,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.ForceMock)
	assert.Equal(t, nullifier.DefaultSalt, cfg.NullifierSalt)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestLoad_ForceMockRequiresLiteralTrue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "TRUE", want: false},
		{value: "1", want: false},
		{value: "false", want: false},
		{value: " true", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvForceMock, tt.value)

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ForceMock)
		})
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHost, "127.0.0.1")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvNullifierSalt, "secret")
	t.Setenv(EnvUniqueSessionTokens, "true")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAllowedOrigins, "http://localhost:5173, https://app.example ,")
	t.Setenv(EnvReadTimeoutSec, "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
	assert.Equal(t, "secret", cfg.NullifierSalt)
	assert.True(t, cfg.UniqueSessionTokens)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.ReadTimeoutSec)
	assert.Equal(t, 15, cfg.WriteTimeoutSec)
}

func TestLoad_EmptySaltEnvIsUnset(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvNullifierSalt, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, nullifier.DefaultSalt, cfg.NullifierSalt)

	path := writeFile(t, "verifier.yaml", "nullifier_salt: file-salt\n")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-salt", cfg.NullifierSalt)
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "verifier.yaml", `
port: 4000
force_mock: true
nullifier_salt: yaml-salt
allowed_origins:
  - http://localhost:5173
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.True(t, cfg.ForceMock)
	assert.Equal(t, "yaml-salt", cfg.NullifierSalt)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "0.0.0.0", cfg.Host)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "verifier.toml", `
host = "127.0.0.1"
port = 4001
unique_session_tokens = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4001", cfg.Addr())
	assert.True(t, cfg.UniqueSessionTokens)
	assert.Equal(t, nullifier.DefaultSalt, cfg.NullifierSalt)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "verifier.yml", "port: 4000\nnullifier_salt: file-salt\n")
	t.Setenv(EnvPort, "5000")
	t.Setenv(EnvNullifierSalt, "env-salt")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "env-salt", cfg.NullifierSalt)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{
			name:   "missing file",
			path:   filepath.Join(t.TempDir(), "nope.yaml"),
			errMsg: "reading config",
		},
		{
			name:   "unsupported extension",
			path:   writeFile(t, "verifier.json", "{}"),
			errMsg: "unsupported extension",
		},
		{
			name:   "bad yaml",
			path:   writeFile(t, "bad.yaml", "port: [1, 2"),
			errMsg: "parsing config",
		},
		{
			name:   "bad toml",
			path:   writeFile(t, "bad.toml", "port = "),
			errMsg: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty host", mutate: func(c *Config) { c.Host = "" }, errMsg: "invalid host"},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, errMsg: "invalid port"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, errMsg: "invalid port"},
		{name: "empty salt", mutate: func(c *Config) { c.NullifierSalt = "" }, errMsg: "nullifier_salt"},
		{name: "read timeout", mutate: func(c *Config) { c.ReadTimeoutSec = 0 }, errMsg: EnvReadTimeoutSec},
		{name: "write timeout", mutate: func(c *Config) { c.WriteTimeoutSec = -1 }, errMsg: EnvWriteTimeoutSec},
		{name: "idle timeout", mutate: func(c *Config) { c.IdleTimeoutSec = 0 }, errMsg: EnvIdleTimeoutSec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
