package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"digital.vasic.webuitest/pkg/config"
)

// LaunchOptions returns the browser launch options for cfg.
func LaunchOptions(cfg *config.Config) playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
}

// ContextOptions returns the browser context options for cfg.
// Video is recorded into the environment videos directory at
// viewport size when enabled.
func ContextOptions(cfg *config.Config) playwright.BrowserNewContextOptions {
	viewport := &playwright.Size{
		Width:  cfg.Viewport.Width,
		Height: cfg.Viewport.Height,
	}
	opts := playwright.BrowserNewContextOptions{
		Viewport:          viewport,
		IgnoreHttpsErrors: playwright.Bool(cfg.IgnoreHTTPSErrors),
	}
	if cfg.Locale != "" {
		opts.Locale = playwright.String(cfg.Locale)
	}
	if len(cfg.ExtraHTTPHeaders) > 0 {
		headers := make(map[string]string, len(cfg.ExtraHTTPHeaders))
		for k, v := range cfg.ExtraHTTPHeaders {
			headers[k] = v
		}
		opts.ExtraHttpHeaders = headers
	}
	if cfg.RecordVideo {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir: cfg.VideosPath(),
			Size: &playwright.Size{
				Width:  cfg.Viewport.Width,
				Height: cfg.Viewport.Height,
			},
		}
	}
	return opts
}

// BrowserType selects the engine named by cfg.Browser.
func BrowserType(pw *playwright.Playwright, cfg *config.Config) (playwright.BrowserType, error) {
	switch cfg.Browser {
	case config.BrowserChromium:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	case config.BrowserWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("%w: unsupported browser %q", config.ErrInvalid, cfg.Browser)
	}
}

// ApplyTimeouts sets the default operation timeout of page
// from cfg.
func ApplyTimeouts(page playwright.Page, cfg *config.Config) {
	page.SetDefaultTimeout(float64(cfg.DefaultTimeoutMs))
}
