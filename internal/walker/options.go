package walker

import "github.com/bethropolis/gitree/internal/utils"

// Options configures the non-filtering behavior of a walk.
type Options struct {
	Logger utils.Logger
}

// Option is a functional option for configuring Options
type Option func(*Options)

func defaultOptions() Options {
	return Options{Logger: utils.NoopLogger{}}
}

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}
