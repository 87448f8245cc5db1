package step

import (
	"context"
	"time"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/metrics"
	"digital.vasic.webuitest/pkg/monitor"
)

// Name suffixes of artifacts captured after a step.
const (
	SuffixSuccess = "success"
	SuffixFailure = "failure"
)

// Shooter captures step screenshots.
type Shooter interface {
	TakeStep(page Page, step, test string) (string, error)
}

// VideoSaver stores the recording of a page under a name.
type VideoSaver interface {
	SaveWithTestName(page VideoPage, name string) (string, error)
}

func outcomeSuffix(err error) string {
	if err != nil {
		return SuffixFailure
	}
	return SuffixSuccess
}

// Logging logs the start and outcome of every step.
func Logging(logger logging.Logger) Middleware {
	logger = logging.OrNull(logger)
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			logger.LogStep(logging.StepLog{
				Test:    sc.Test,
				Step:    sc.Name,
				Status:  logging.StepStarted,
				Attempt: sc.Attempt,
			})
			start := time.Now()
			err := next(ctx, sc)

			entry := logging.StepLog{
				Test:       sc.Test,
				Step:       sc.Name,
				Status:     logging.StepPassed,
				Attempt:    sc.Attempt,
				DurationMs: time.Since(start).Milliseconds(),
			}
			if err != nil {
				entry.Status = logging.StepFailed
				entry.Details = err.Error()
			}
			logger.LogStep(entry)
			return err
		}
	}
}

// Screenshot takes a screenshot after the step, whether it
// passed or failed. Screenshot failures are logged; the step
// error is returned unchanged.
func Screenshot(shooter Shooter, logger logging.Logger) Middleware {
	logger = logging.OrNull(logger)
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			err := next(ctx, sc)
			if sc.Page == nil {
				logger.Warn("no page, skipping step screenshot",
					logging.StringField("step", sc.Name))
				return err
			}

			name := sc.Name + "_" + outcomeSuffix(err)
			path, shotErr := shooter.TakeStep(sc.Page, name, sc.Test)
			switch {
			case shotErr != nil:
				logger.Warn("step screenshot failed",
					logging.StringField("step", sc.Name),
					logging.ErrorField(shotErr))
			case err != nil:
				logger.Error("step failed, screenshot saved",
					logging.StringField("step", sc.Name),
					logging.StringField("path", path))
			default:
				logger.Info("step passed, screenshot saved",
					logging.StringField("step", sc.Name),
					logging.StringField("path", path))
			}
			return err
		}
	}
}

// Retry re-runs a failing step up to maxRetries more times,
// sleeping delay between attempts. Observers registered with
// Context.OnRetry see every retried attempt. Cancellation of
// ctx stops retrying and returns the last step error.
func Retry(maxRetries int, delay time.Duration, logger logging.Logger) Middleware {
	if maxRetries < 0 {
		maxRetries = 0
	}
	logger = logging.OrNull(logger)
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			for attempt := 0; ; attempt++ {
				sc.Attempt = attempt + 1
				err := next(ctx, sc)
				if err == nil {
					return nil
				}
				if attempt == maxRetries {
					if maxRetries > 0 {
						logger.Error("step failed after retries",
							logging.StringField("step", sc.Name),
							logging.IntField("retries", maxRetries),
							logging.ErrorField(err))
					}
					return err
				}

				logger.LogStep(logging.StepLog{
					Test:    sc.Test,
					Step:    sc.Name,
					Status:  logging.StepRetry,
					Details: err.Error(),
					Attempt: sc.Attempt,
				})
				sc.notifyRetry(sc.Attempt, err)

				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return err
				case <-timer.C:
				}
			}
		}
	}
}

// Video saves the page recording after the step, named after
// the step with a failure suffix when it failed. Pages without
// video are skipped.
func Video(videos VideoSaver, logger logging.Logger) Middleware {
	logger = logging.OrNull(logger)
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			err := next(ctx, sc)
			vp, ok := sc.Page.(VideoPage)
			if !ok {
				logger.Debug("page does not record video",
					logging.StringField("step", sc.Name))
				return err
			}

			name := sc.Name
			if err != nil {
				name += "_" + SuffixFailure
			}
			path, saveErr := videos.SaveWithTestName(vp, name)
			if saveErr != nil {
				logger.Warn("step video not saved",
					logging.StringField("step", sc.Name),
					logging.ErrorField(saveErr))
				return err
			}
			logger.Info("step video saved",
				logging.StringField("step", sc.Name),
				logging.StringField("path", path))
			return err
		}
	}
}

// Metrics records the status and duration of every step.
func Metrics(recorder metrics.StepMetrics) Middleware {
	recorder = metrics.OrNoop(recorder)
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			start := time.Now()
			err := next(ctx, sc)
			status := StatusPassed
			if err != nil {
				status = StatusFailed
			}
			recorder.RecordStep(sc.Test, sc.Name, status, time.Since(start))
			return err
		}
	}
}

// Events publishes step lifecycle events to collector,
// including retries made by Retry middleware further in.
func Events(collector *monitor.EventCollector) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, sc *Context) error {
			if sc.Attempt <= 1 {
				sc.OnRetry(func(attempt int, err error) {
					collector.EmitRetry(sc.Test, sc.Name, attempt, err.Error())
				})
			}
			collector.EmitStarted(sc.Test, sc.Name)
			start := time.Now()
			err := next(ctx, sc)
			if err != nil {
				collector.EmitFailed(sc.Test, sc.Name, err.Error(), time.Since(start))
				return err
			}
			collector.EmitPassed(sc.Test, sc.Name, time.Since(start))
			return nil
		}
	}
}
