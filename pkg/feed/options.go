package feed

import "log/slog"

// Option configures a Feed during construction.
type Option func(*Feed)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}
