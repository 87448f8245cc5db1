package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"digital.vasic.webuitest/pkg/logging"
)

// Report subdirectories managed by PrepareRun.
const (
	ResultsDir = "allure-results"
	ReportDir  = "allure-report"
	VideosDir  = "videos"
)

// StaleVideoAge is the age beyond which PrepareRun deletes
// recorded videos.
const StaleVideoAge = time.Hour

// PrepareRun readies reportPath for a new run: previous
// result and report directories are cleared, videos older
// than StaleVideoAge are removed, and the result and report
// directories are recreated.
func PrepareRun(ctx context.Context, reportPath string, logger logging.Logger) error {
	logger = logging.OrNull(logger)
	g, gCtx := errgroup.WithContext(ctx)

	for _, name := range []string{ResultsDir, ReportDir} {
		dir := filepath.Join(reportPath, name)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("clear %s: %w", dir, err)
			}
			logger.Info("cleared report directory", logging.StringField("path", dir))
			return nil
		})
	}

	videos := filepath.Join(reportPath, VideosDir)
	g.Go(func() error {
		if _, err := os.Stat(videos); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		vm, err := NewVideoManager(videos, WithLogger(logger))
		if err != nil {
			return err
		}
		if _, err := vm.CleanupOld(StaleVideoAge); err != nil {
			// Cleanup failures are logged only.
			logger.Warn("video cleanup failed", logging.ErrorField(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	for _, name := range []string{ResultsDir, ReportDir} {
		if err := os.MkdirAll(filepath.Join(reportPath, name), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}
