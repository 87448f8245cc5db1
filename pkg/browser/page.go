// Package browser adapts playwright pages and derives
// playwright launch and context options from the framework
// configuration. Launching and driving browsers stays with
// the caller.
package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"digital.vasic.webuitest/pkg/step"
)

// ErrNotRecording is returned by VideoPath for pages whose
// context does not record video.
var ErrNotRecording = errors.New("page is not recording video")

var (
	_ step.Page      = (*Page)(nil)
	_ step.VideoPage = (*Page)(nil)
)

// Page adapts a playwright.Page to the step page interfaces.
type Page struct {
	page playwright.Page
}

// NewPage wraps p.
func NewPage(p playwright.Page) *Page {
	return &Page{page: p}
}

// Raw returns the wrapped playwright page.
func (p *Page) Raw() playwright.Page { return p.page }

// Screenshot writes a PNG screenshot of the page to path.
func (p *Page) Screenshot(path string, fullPage bool) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage),
	})
	if err != nil {
		return fmt.Errorf("page screenshot: %w", err)
	}
	return nil
}

// VideoPath returns the path of the page recording.
func (p *Page) VideoPath() (string, error) {
	video := p.page.Video()
	if video == nil {
		return "", ErrNotRecording
	}
	path, err := video.Path()
	if err != nil {
		return "", fmt.Errorf("video path: %w", err)
	}
	return path, nil
}
