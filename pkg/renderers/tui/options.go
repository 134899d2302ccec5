package tui

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formclient/pkg/engine"
)

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		if out != nil {
			r.out = out
		}
	}
}

// WithSubmitter receives the values once the form is submitted.
func WithSubmitter(submitter engine.Submitter) Option {
	return func(r *Runner) {
		r.submitter = submitter
	}
}

// WithLogger sets the logger shared with the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStyles replaces the terminal styles.
func WithStyles(styles Styles) Option {
	return func(r *Runner) {
		r.styles = styles
	}
}
