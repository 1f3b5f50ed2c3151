// Package results records the calendars created by a provisioning run.
package results

import (
	"context"
	"errors"
)

// Log is an append-only record of created calendars.
type Log interface {
	// Header resets or prepares the log at the start of a run.
	Header(ctx context.Context) error

	// Append records a created calendar.
	Append(ctx context.Context, id, name string) error
}

// Multi writes to every log in the list. A failure in one log does not stop
// the others from being written.
type Multi []Log

func (m Multi) Header(ctx context.Context) error {
	var errs []error
	for _, l := range m {
		if err := l.Header(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m Multi) Append(ctx context.Context, id, name string) error {
	var errs []error
	for _, l := range m {
		if err := l.Append(ctx, id, name); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
