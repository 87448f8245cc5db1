package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

var fixedTime = time.Date(2024, 5, 17, 9, 30, 15, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// filePage writes a marker file for each screenshot.
type filePage struct {
	fullPage []bool
	err      error
	video    string
	videoErr error
}

func (p *filePage) Screenshot(path string, fullPage bool) error {
	if p.err != nil {
		return p.err
	}
	p.fullPage = append(p.fullPage, fullPage)
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (p *filePage) VideoPath() (string, error) {
	return p.video, p.videoErr
}

var errCapture = errors.New("target closed")

func touch(path string, age time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		return err
	}
	mt := time.Now().Add(-age)
	return os.Chtimes(path, mt, mt)
}
