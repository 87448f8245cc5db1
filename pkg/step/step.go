// Package step runs named UI test steps through a chain of
// middleware that adds logging, screenshots, retries, video
// capture, metrics and live events around the step body.
package step

import "context"

// Page is the browser page a step acts on. Only the
// operations the middleware needs are required.
type Page interface {
	Screenshot(path string, fullPage bool) error
}

// VideoPage is a Page that records video.
type VideoPage interface {
	Page
	// VideoPath returns the path of the page recording. It
	// fails when the page is not being recorded.
	VideoPath() (string, error)
}

// Context describes the step being executed.
type Context struct {
	// Test is the name of the enclosing test, may be empty.
	Test string

	// Name is the step name.
	Name string

	// Page is the page under test, may be nil.
	Page Page

	// Attempt is the 1-based attempt number.
	Attempt int

	retryObservers []RetryObserver
}

// RetryObserver is told about a failed attempt that is about
// to be retried.
type RetryObserver func(attempt int, err error)

// OnRetry registers fn with the step. Retry middleware calls
// it once per retried attempt.
func (sc *Context) OnRetry(fn RetryObserver) {
	sc.retryObservers = append(sc.retryObservers, fn)
}

func (sc *Context) notifyRetry(attempt int, err error) {
	for _, fn := range sc.retryObservers {
		fn(attempt, err)
	}
}

// Handler is a step body.
type Handler func(ctx context.Context, sc *Context) error

// Middleware wraps a Handler with additional behavior.
type Middleware func(Handler) Handler

// Chain wraps h with mws. The first middleware is the
// outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
