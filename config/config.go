// Package config loads the verifier's process-wide configuration.
//
// Values are resolved once at startup: defaults, then an optional YAML or
// TOML file, then environment variables. The result is never mutated.
//
// An empty NULLIFIER_SALT is treated as unset: the salt from the file, or
// the default salt, stays in effect. An empty salt cannot be configured.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kacy/attestation-verifier/nullifier"
)

// Environment variables read by Load.
const (
	EnvHost                = "ATTEST_HOST"
	EnvPort                = "ATTEST_PORT"
	EnvForceMock           = "E2E_MODE"
	EnvNullifierSalt       = "NULLIFIER_SALT"
	EnvUniqueSessionTokens = "ATTEST_UNIQUE_SESSION_TOKENS"
	EnvLogLevel            = "LOG_LEVEL"
	EnvAllowedOrigins      = "ATTEST_ALLOWED_ORIGINS"
	EnvReadTimeoutSec      = "ATTEST_READ_TIMEOUT_SEC"
	EnvWriteTimeoutSec     = "ATTEST_WRITE_TIMEOUT_SEC"
	EnvIdleTimeoutSec      = "ATTEST_IDLE_TIMEOUT_SEC"

	MinPortNumber = 1
	MaxPortNumber = 65535
)

// Config holds the verifier's runtime configuration.
type Config struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`

	// ForceMock forces the maximal trust score for all requests.
	ForceMock bool `yaml:"force_mock" toml:"force_mock"`

	// NullifierSalt is secret; it must never be logged or returned.
	NullifierSalt string `yaml:"nullifier_salt" toml:"nullifier_salt"`

	UniqueSessionTokens bool     `yaml:"unique_session_tokens" toml:"unique_session_tokens"`
	LogLevel            string   `yaml:"log_level" toml:"log_level"`
	AllowedOrigins      []string `yaml:"allowed_origins" toml:"allowed_origins"`

	ReadTimeoutSec  int `yaml:"read_timeout_sec" toml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec" toml:"write_timeout_sec"`
	IdleTimeoutSec  int `yaml:"idle_timeout_sec" toml:"idle_timeout_sec"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            3000,
		NullifierSalt:   nullifier.DefaultSalt,
		LogLevel:        "info",
		AllowedOrigins:  []string{"*"},
		ReadTimeoutSec:  15,
		WriteTimeoutSec: 15,
		IdleTimeoutSec:  60,
	}
}

// Load resolves configuration from defaults, the file at path (optional)
// and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %q: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config %q: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing config %q: %w", path, err)
		}
	default:
		return fmt.Errorf("config %q: unsupported extension %q (want .yaml, .yml or .toml)", path, ext)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get(EnvHost); ok {
		cfg.Host = v
	}
	if v, ok := get(EnvPort); ok {
		cfg.Port = atoiOr(v, cfg.Port)
	}
	// Only the exact literal "true" forces mock mode.
	if v, ok := lookup(EnvForceMock); ok && v == "true" {
		cfg.ForceMock = true
	}
	if v, ok := lookup(EnvNullifierSalt); ok && v != "" {
		cfg.NullifierSalt = v
	}
	if v, ok := get(EnvUniqueSessionTokens); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UniqueSessionTokens = b
		}
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvAllowedOrigins); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v, ok := get(EnvReadTimeoutSec); ok {
		cfg.ReadTimeoutSec = atoiOr(v, cfg.ReadTimeoutSec)
	}
	if v, ok := get(EnvWriteTimeoutSec); ok {
		cfg.WriteTimeoutSec = atoiOr(v, cfg.WriteTimeoutSec)
	}
	if v, ok := get(EnvIdleTimeoutSec); ok {
		cfg.IdleTimeoutSec = atoiOr(v, cfg.IdleTimeoutSec)
	}
}

func atoiOr(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Validate checks that the configuration is coherent.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("invalid host: must not be empty")
	}
	if c.Port < MinPortNumber || c.Port > MaxPortNumber {
		return fmt.Errorf("invalid port %d: must be in range %d..%d", c.Port, MinPortNumber, MaxPortNumber)
	}
	if c.NullifierSalt == "" {
		return errors.New("invalid nullifier_salt: must not be empty")
	}
	if c.ReadTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvReadTimeoutSec)
	}
	if c.WriteTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvWriteTimeoutSec)
	}
	if c.IdleTimeoutSec <= 0 {
		return fmt.Errorf("invalid %s: must be > 0", EnvIdleTimeoutSec)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
