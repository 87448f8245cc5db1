package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/step"
)

// VideoPattern matches recorded videos below a video
// directory.
const VideoPattern = "**/*.{mp4,webm}"

// VideoInfo describes a video file.
type VideoInfo struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// VideoManager stores page recordings under test names and
// prunes old recordings.
type VideoManager struct {
	dir string
	options
}

// NewVideoManager creates a VideoManager for dir, creating it
// if needed.
func NewVideoManager(dir string, opts ...Option) (*VideoManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create video dir: %w", err)
	}
	return &VideoManager{dir: dir, options: newOptions(opts)}, nil
}

// Dir returns the video directory.
func (v *VideoManager) Dir() string { return v.dir }

// VideoPath returns the recording path of page. It wraps
// ErrNoVideo when the page has no recording.
func (v *VideoManager) VideoPath(page step.VideoPage) (string, error) {
	path, err := page.VideoPath()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoVideo, err)
	}
	if path == "" {
		return "", ErrNoVideo
	}
	return path, nil
}

// SaveWithTestName copies the recording of page to
// <dir>/<test>_<ts>.mp4 and returns the new path.
func (v *VideoManager) SaveWithTestName(page step.VideoPage, test string) (string, error) {
	src, err := v.VideoPath(page)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoVideo, src)
		}
		return "", fmt.Errorf("stat video: %w", err)
	}

	dst := filepath.Join(v.dir, sanitize(fmt.Sprintf("%s_%s.mp4", test, v.timestamp())))
	if err := copyFile(src, dst); err != nil {
		v.logger.Error("failed to save video",
			logging.StringField("source", src), logging.ErrorField(err))
		return "", fmt.Errorf("save video: %w", err)
	}
	v.logger.Info("video saved", logging.StringField("path", dst))
	v.metrics.RecordArtifact(KindVideo)
	return dst, nil
}

// CleanupOld removes videos below the directory whose
// modification time is older than maxAge. It returns how many
// files were removed.
func (v *VideoManager) CleanupOld(maxAge time.Duration) (int, error) {
	cutoff := v.now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(v.dir, path)
		if err != nil {
			return nil
		}
		matched, err := doublestar.Match(VideoPattern, filepath.ToSlash(rel))
		if err != nil || !matched {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		v.logger.Debug("removed old video", logging.StringField("path", path))
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup videos: %w", err)
	}
	if removed > 0 {
		v.logger.Info("old videos removed", logging.IntField("count", removed))
	}
	return removed, nil
}

// Info returns the size and modification time of a video.
func (v *VideoManager) Info(path string) (VideoInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("video info: %w", err)
	}
	return VideoInfo{Path: path, Size: st.Size(), Modified: st.ModTime()}, nil
}

// copyFile copies src to dst and carries over the
// modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	st, err := in.Stat()
	if err != nil {
		return err
	}
	return os.Chtimes(dst, st.ModTime(), st.ModTime())
}
