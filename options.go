package ledgerfile

import "github.com/rs/zerolog"

// options defines all configuration options for a Store.
type options struct {
	logger zerolog.Logger
}

// Option is a function that configures the store options.
type Option func(*options)

// WithLogger sets the structured logger used for lifecycle events. The
// default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
	}
}
