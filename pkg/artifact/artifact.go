// Package artifact stores screenshots and videos captured
// during UI test steps.
package artifact

import (
	"errors"
	"time"

	"digital.vasic.webuitest/pkg/logging"
	"digital.vasic.webuitest/pkg/metrics"
)

// TimestampFormat is the timestamp layout used in artifact
// file names.
const TimestampFormat = "20060102_150405"

// Artifact kinds reported to metrics.
const (
	KindScreenshot = "screenshot"
	KindVideo      = "video"
)

// ErrNoVideo is returned when a page has no recording to
// save.
var ErrNoVideo = errors.New("no video recording")

// Option configures a Screenshotter or VideoManager.
type Option func(*options)

type options struct {
	logger  logging.Logger
	metrics metrics.StepMetrics
	now     func() time.Time
}

// WithLogger sets the logger for saved and failed artifacts.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the recorder notified of saved artifacts.
func WithMetrics(m metrics.StepMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock sets the time source used for file name
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrNull(o.logger)
	o.metrics = metrics.OrNoop(o.metrics)
	return o
}

func (o options) timestamp() string {
	return o.now().Format(TimestampFormat)
}
