package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"digital.vasic.webuitest/pkg/env"
	"digital.vasic.webuitest/pkg/logging"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	vars   env.Loader
	logger logging.Logger
}

// WithEnvLoader sets the variable source used for ${VAR}
// expansion, environment overrides and test data overrides.
func WithEnvLoader(l env.Loader) Option {
	return func(o *loadOptions) { o.vars = l }
}

// WithLogger sets the logger for load messages, also handed
// to the test data manager.
func WithLogger(l logging.Logger) Option {
	return func(o *loadOptions) { o.logger = l }
}

// Load builds a Config from defaults, the YAML file at path
// and environment variables, in increasing precedence. A
// missing file is not an error; an empty path skips the file.
func Load(path string, opts ...Option) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.vars == nil {
		o.vars = env.NewLoader()
	}

	cfg := Default()
	cfg.vars = o.vars
	cfg.logger = o.logger

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logging.OrNull(o.logger).Info("config loaded",
		logging.StringField("env", cfg.Env),
		logging.StringField("browser", cfg.Browser),
		logging.BoolField("headless", cfg.Headless),
		logging.LogField("extra_http_headers", env.RedactHeaders(cfg.ExtraHTTPHeaders)))
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} references
	expanded := os.Expand(string(data), c.vars.Get)

	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := c.vars.Get(env.VarEnv); v != "" {
		c.Env = v
	}
	if v := c.vars.Get(env.VarBrowser); v != "" {
		c.Browser = v
	}
	if v := c.vars.Get(env.VarHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean",
				ErrInvalid, env.VarHeadless, v)
		}
		c.Headless = headless
	}
	return nil
}
