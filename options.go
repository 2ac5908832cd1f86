package attrmatch

import (
	"context"
	"log/slog"

	"github.com/mharbol/go-attrmatch/matching"
)

// Option configures the convenience entry points of this package. The
// matcher core itself takes no options; these only affect observability
// around it.
type Option func(*config) error

// config holds resolved option state for one call.
type config struct {
	sink matching.Sink

	// logger is the structured logger for debug output. If nil, logging is
	// disabled (silent mode).
	//
	// log/slog is used rather than a custom interface because slog separates
	// frontend from backend by design; any backend can be plugged in via a
	// handler.
	logger *slog.Logger
}

// WithSink attaches an additional explanation sink. A recording Trace is
// always kept internally for results and failure descriptions; the extra
// sink observes the same event stream.
func WithSink(s matching.Sink) Option {
	return func(c *config) error {
		c.sink = s
		return nil
	}
}

// WithLogger sets a structured logger for selection diagnostics. If not
// set, logging is disabled.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "attrmatch")
//	attrmatch.Match(candidates, requested, s, attrmatch.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// log returns the configured logger, or a no-op logger if none was set.
// Libraries should be silent by default; users opt in via WithLogger.
func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func newConfig(opts ...Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// tee fans one event stream out to several sinks.
type tee []matching.Sink

func (t tee) Record(e matching.Event) {
	for _, s := range t {
		s.Record(e)
	}
}

// sinkFor combines the internal trace with any user-supplied sink.
func (c *config) sinkFor(trace *matching.Trace) matching.Sink {
	if c.sink == nil {
		return trace
	}
	return tee{trace, c.sink}
}
