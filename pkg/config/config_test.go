package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.webuitest/pkg/dataset"
	"digital.vasic.webuitest/pkg/env"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, BrowserChromium, cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30000, cfg.DefaultTimeoutMs)
	assert.Equal(t, Viewport{Width: 1920, Height: 1080}, cfg.Viewport)
	assert.Equal(t, "zh-CN", cfg.Locale)
	assert.Equal(t, "zh-CN,zh;q=0.9,en;q=0.8", cfg.ExtraHTTPHeaders["Accept-Language"])
	assert.True(t, cfg.IgnoreHTTPSErrors)
	assert.True(t, cfg.RecordVideo)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty env", func(c *Config) { c.Env = " " }},
		{"unknown browser", func(c *Config) { c.Browser = "opera" }},
		{"zero timeout", func(c *Config) { c.DefaultTimeoutMs = 0 }},
		{"negative width", func(c *Config) { c.Viewport.Width = -1 }},
		{"zero height", func(c *Config) { c.Viewport.Height = 0 }},
		{"empty report root", func(c *Config) { c.ReportRoot = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Env = "dev"

	assert.Equal(t, filepath.Join("reports", "dev"), cfg.ReportPath())
	assert.Equal(t, filepath.Join("reports", "dev", "videos"), cfg.VideosPath())
	assert.Equal(t, filepath.Join("reports", "dev", "screenshots"), cfg.ScreenshotsPath())
	assert.Equal(t, filepath.Join("reports", "dev", "logs"), cfg.LogPath())
	assert.Equal(t, filepath.Join("reports", "dev", "allure-results"), cfg.ResultsPath())
	assert.Equal(t, filepath.Join("reports", "dev", "screenshots", "a.png"),
		cfg.ScreenshotFile("a.png"))
	assert.Equal(t, filepath.Join("reports", "dev", "logs", "test.log"),
		cfg.LogFile("test.log"))
}

func writeData(t *testing.T, root, envName, content string) {
	t.Helper()
	dir := filepath.Join(root, "data", envName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "test_data.json"), []byte(content), 0o644))
}

func TestDataBridge(t *testing.T) {
	root := t.TempDir()
	writeData(t, root, "test", `{
		"timeouts": {"medium": 15000},
		"test_users": [{"username": "alice", "password": "secret"}]
	}`)

	cfg, err := Load("", WithEnvLoader(env.NewIsolatedLoader(nil)))
	require.NoError(t, err)
	cfg.DataRoot = root

	assert.Equal(t, 15000, cfg.Timeout())
	assert.Equal(t, dataset.User{Username: "alice", Password: "secret"}, cfg.TestUser(0))
	assert.Equal(t, "alice", cfg.Username(0))
	assert.Equal(t, "secret", cfg.Password(0))
	assert.Equal(t, dataset.User{}, cfg.TestUser(3))
	assert.Empty(t, cfg.Username(3))
	assert.Same(t, cfg.Data(), cfg.Data())
}

func TestDataBridge_Defaults(t *testing.T) {
	cfg := Default()
	cfg.DataRoot = t.TempDir()
	cfg.vars = env.NewIsolatedLoader(nil)

	assert.Equal(t, dataset.DefaultTimeoutMs, cfg.Timeout())
	assert.Empty(t, cfg.Password(0))
}
