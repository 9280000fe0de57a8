package collection

import "log/slog"

// Option configures a Collection during construction.
type Option func(*Collection)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithListeners registers lifecycle listeners at construction time.
func WithListeners(listeners ...Listener) Option {
	return func(c *Collection) {
		for _, l := range listeners {
			c.AddListener(l)
		}
	}
}

// WithBuildListener sets the build listener at construction time.
func WithBuildListener(b BuildListener) Option {
	return func(c *Collection) {
		c.SetBuildListener(b)
	}
}

// WithLifetimeExtenders registers lifetime extenders at construction time,
// in the given order.
func WithLifetimeExtenders(extenders ...LifetimeExtender) Option {
	return func(c *Collection) {
		for _, e := range extenders {
			c.AddLifetimeExtender(e)
		}
	}
}

// WithDismissInterceptors registers dismiss interceptors at construction
// time, in the given order.
func WithDismissInterceptors(interceptors ...DismissInterceptor) Option {
	return func(c *Collection) {
		for _, i := range interceptors {
			c.AddDismissInterceptor(i)
		}
	}
}
