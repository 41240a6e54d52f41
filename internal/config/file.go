package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// File is the optional TOML configuration file of the server binary.
//
//	timeout = "30s"
//	token_env = "MONDAY_TOKEN"
//	token_flag = "-t"
//	cwd = "/srv/bridge"
//
//	[env]
//	NODE_OPTIONS = "--max-old-space-size=256"
//
//	[[strategy]]
//	name = "local"
//	command = "/opt/monday/bin/monday-api-mcp"
type File struct {
	Timeout    string            `toml:"timeout"`
	TokenEnv   string            `toml:"token_env"`
	TokenFlag  *string           `toml:"token_flag"`
	Cwd        string            `toml:"cwd"`
	Env        map[string]string `toml:"env"`
	Strategies []LaunchStrategy  `toml:"strategy"`
}

// LoadFile reads and validates a TOML configuration file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadFile(path string) (*File, error) {
	var f File

	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &f, nil
}

func (f *File) validate() error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}

		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
	}

	for i, s := range f.Strategies {
		if strings.TrimSpace(s.Command) == "" {
			return fmt.Errorf("strategy %d (%s): command is required", i, s.Name)
		}
	}

	return nil
}

// Apply overlays the file settings onto opts. Only settings present in the
// file are changed.
func (f *File) Apply(opts *Options) {
	if f.Timeout != "" {
		// Validated by LoadFile.
		opts.Timeout, _ = time.ParseDuration(f.Timeout)
	}

	if f.TokenEnv != "" {
		opts.TokenEnv = f.TokenEnv
	}

	if f.TokenFlag != nil {
		flag := *f.TokenFlag
		opts.TokenFlag = &flag
	}

	if f.Cwd != "" {
		opts.Cwd = f.Cwd
	}

	if len(f.Env) > 0 {
		if opts.Env == nil {
			opts.Env = make(map[string]string, len(f.Env))
		}

		for k, v := range f.Env {
			opts.Env[k] = v
		}
	}

	if len(f.Strategies) > 0 {
		opts.Strategies = append([]LaunchStrategy(nil), f.Strategies...)
	}
}
