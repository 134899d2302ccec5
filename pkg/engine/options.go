package engine

import "log/slog"

// Option configures an Engine.
type Option func(*Engine)

// WithSubmitter replaces the default log-only submitter.
func WithSubmitter(submitter Submitter) Option {
	return func(e *Engine) {
		if submitter != nil {
			e.submitter = submitter
		}
	}
}

// WithLogger sets the logger used for transitions and the default submitter.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
