package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/step"
)

const pngExt = ".png"

// Screenshotter saves page screenshots into a directory.
type Screenshotter struct {
	dir string
	options
}

// NewScreenshotter creates a Screenshotter writing into dir,
// creating it if needed.
func NewScreenshotter(dir string, opts ...Option) (*Screenshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &Screenshotter{dir: dir, options: newOptions(opts)}, nil
}

// Dir returns the screenshot directory.
func (s *Screenshotter) Dir() string { return s.dir }

// Take saves a screenshot of page as name inside the
// screenshot directory. Path separators in name are replaced.
// An empty name gets a timestamped default; the .png extension
// is added when missing. It returns the path of the file
// written.
func (s *Screenshotter) Take(page step.Page, name string, fullPage bool) (string, error) {
	if name == "" {
		name = "screenshot_" + s.timestamp()
	}
	name = sanitize(name)
	if !strings.HasSuffix(name, pngExt) {
		name += pngExt
	}
	path := filepath.Join(s.dir, name)

	if err := page.Screenshot(path, fullPage); err != nil {
		s.logger.Error("screenshot failed",
			logging.StringField("path", path), logging.ErrorField(err))
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	s.logger.Info("screenshot saved", logging.StringField("path", path))
	s.metrics.RecordArtifact(KindScreenshot)
	return path, nil
}

// TakeStep saves a full-page screenshot named
// <test>_<step>_<ts>.png, or step_<step>_<ts>.png when test is
// empty.
func (s *Screenshotter) TakeStep(page step.Page, stepName, test string) (string, error) {
	var name string
	if test != "" {
		name = fmt.Sprintf("%s_%s_%s", test, stepName, s.timestamp())
	} else {
		name = fmt.Sprintf("step_%s_%s", stepName, s.timestamp())
	}
	return s.Take(page, sanitize(name), true)
}

// TakeOnFailure saves a full-page screenshot named
// failure_<test>_<ts>.png.
func (s *Screenshotter) TakeOnFailure(page step.Page, test string) (string, error) {
	name := fmt.Sprintf("failure_%s_%s", test, s.timestamp())
	return s.Take(page, sanitize(name), true)
}

// sanitize keeps names inside the artifact directory.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
