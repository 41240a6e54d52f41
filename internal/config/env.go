package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Env is the server configuration read from environment variables.
// The token itself is looked up on every request through TokenEnv, so a
// missing token is a per-request configuration error rather than a startup
// failure.
type Env struct {
	// Addr is the HTTP listen address. ENV: RPCBRIDGE_ADDR
	Addr string `env:"RPCBRIDGE_ADDR,default=:8080"`
	// Timeout is the per-call budget. ENV: RPCBRIDGE_TIMEOUT
	Timeout time.Duration `env:"RPCBRIDGE_TIMEOUT,default=25s"`
	// ConfigFile is an optional TOML file. ENV: RPCBRIDGE_CONFIG
	ConfigFile string `env:"RPCBRIDGE_CONFIG"`
	// TokenEnv names the token variable. ENV: RPCBRIDGE_TOKEN_ENV
	TokenEnv string `env:"RPCBRIDGE_TOKEN_ENV,default=MONDAY_TOKEN"`
	// LogLevel is one of debug, info, warn, error. ENV: RPCBRIDGE_LOG_LEVEL
	LogLevel string `env:"RPCBRIDGE_LOG_LEVEL,default=info"`
	// LogFormat is text or json. ENV: RPCBRIDGE_LOG_FORMAT
	LogFormat string `env:"RPCBRIDGE_LOG_FORMAT,default=text"`
}

// LoadEnv decodes Env from the process environment.
func LoadEnv() (*Env, error) {
	var cfg Env

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("RPCBRIDGE_TIMEOUT must be positive, got %s", cfg.Timeout)
	}

	return &cfg, nil
}
