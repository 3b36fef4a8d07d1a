package srv

import (
	"context"
	"errors"
)

// cleanup runs its closers on shutdown and does nothing on start.
type cleanup []func() error

func (c cleanup) Start(context.Context) error { return nil }

func (c cleanup) Shutdown(context.Context) error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewCleanup wraps close functions into a Service. They run in reverse order
// and every failure is reported.
func NewCleanup(fns ...func() error) Service {
	return cleanup(fns)
}
