// Package config holds the framework configuration. A Config
// is built once with Load and passed explicitly to the
// components that need it.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"digital.vasic.webuitest/pkg/dataset"
	"digital.vasic.webuitest/pkg/env"
	"digital.vasic.webuitest/pkg/logging"
)

// ErrInvalid is returned when a configuration value is out of
// range.
var ErrInvalid = errors.New("invalid configuration")

// Supported browser engines.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// DefaultConfigFile is the conventional location of the
// framework configuration file.
const DefaultConfigFile = "config/framework.yaml"

// Report subdirectories.
const (
	videosDir      = "videos"
	screenshotsDir = "screenshots"
	logsDir        = "logs"
	resultsDir     = "allure-results"
)

// Viewport is a browser window size in pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Config is the framework configuration.
type Config struct {
	// Env names the target environment, e.g. "test".
	Env string `yaml:"env" json:"env"`

	// Browser is one of chromium, firefox or webkit.
	Browser string `yaml:"browser" json:"browser"`

	Headless bool `yaml:"headless" json:"headless"`

	// DefaultTimeoutMs is the default page operation timeout.
	DefaultTimeoutMs int `yaml:"default_timeout_ms" json:"default_timeout_ms"`

	Viewport          Viewport          `yaml:"viewport" json:"viewport"`
	Locale            string            `yaml:"locale" json:"locale"`
	ExtraHTTPHeaders  map[string]string `yaml:"extra_http_headers" json:"extra_http_headers"`
	IgnoreHTTPSErrors bool              `yaml:"ignore_https_errors" json:"ignore_https_errors"`
	RecordVideo       bool              `yaml:"record_video" json:"record_video"`

	// ReportRoot is the directory holding per-environment
	// report trees.
	ReportRoot string `yaml:"report_root" json:"report_root"`

	// DataRoot is the project root that contains data/.
	DataRoot string `yaml:"data_root" json:"data_root"`

	vars   env.Loader
	logger logging.Logger
	data   *dataset.Manager
}

// Default returns a Config populated with framework defaults.
func Default() *Config {
	return &Config{
		Env:              env.DefaultEnv,
		Browser:          BrowserChromium,
		Headless:         true,
		DefaultTimeoutMs: 30000,
		Viewport:         Viewport{Width: 1920, Height: 1080},
		Locale:           "zh-CN",
		ExtraHTTPHeaders: map[string]string{
			"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		},
		IgnoreHTTPSErrors: true,
		RecordVideo:       true,
		ReportRoot:        "reports",
		DataRoot:          ".",
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Env) == "" {
		problems = append(problems, "env must not be empty")
	}
	switch c.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		problems = append(problems,
			fmt.Sprintf("unsupported browser %q", c.Browser))
	}
	if c.DefaultTimeoutMs <= 0 {
		problems = append(problems, "default_timeout_ms must be positive")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		problems = append(problems, "viewport dimensions must be positive")
	}
	if c.ReportRoot == "" {
		problems = append(problems, "report_root must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ReportPath returns the report directory of the current
// environment.
func (c *Config) ReportPath() string {
	return filepath.Join(c.ReportRoot, c.Env)
}

// VideosPath returns the directory for recorded videos.
func (c *Config) VideosPath() string {
	return filepath.Join(c.ReportPath(), videosDir)
}

// ScreenshotsPath returns the directory for screenshots.
func (c *Config) ScreenshotsPath() string {
	return filepath.Join(c.ReportPath(), screenshotsDir)
}

// LogPath returns the directory for log files.
func (c *Config) LogPath() string {
	return filepath.Join(c.ReportPath(), logsDir)
}

// ResultsPath returns the directory for raw test results.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.ReportPath(), resultsDir)
}

// ScreenshotFile returns the path of a screenshot file.
func (c *Config) ScreenshotFile(name string) string {
	return filepath.Join(c.ScreenshotsPath(), name)
}

// LogFile returns the path of a log file.
func (c *Config) LogFile(name string) string {
	return filepath.Join(c.LogPath(), name)
}

// Data returns the test data of the configured environment,
// loading it on first use. The first call must not race with
// other calls.
func (c *Config) Data() *dataset.Manager {
	if c.data == nil {
		opts := []dataset.Option{
			dataset.WithRoot(c.DataRoot),
			dataset.WithLogger(c.logger),
		}
		if c.vars != nil {
			opts = append(opts, dataset.WithEnvLoader(c.vars))
		}
		c.data = dataset.NewManager(c.Env, opts...)
	}
	return c.data
}

// Timeout returns the "medium" test data timeout in
// milliseconds.
func (c *Config) Timeout() int {
	return c.Data().Timeout("medium")
}

// TestUser returns the test account at index, or an empty
// account when there is none.
func (c *Config) TestUser(index int) dataset.User {
	u, _ := c.Data().TestUser(index)
	return u
}

// Username returns the user name of the account at index.
func (c *Config) Username(index int) string {
	return c.TestUser(index).Username
}

// Password returns the password of the account at index.
func (c *Config) Password(index int) string {
	return c.TestUser(index).Password
}
