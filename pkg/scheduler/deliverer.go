package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Deliverer is the transport that actually shows a notification. The engine
// only cares about the success/failure contract; everything else (channels,
// formatting, fallbacks inside the transport) is the transport's business.
type Deliverer interface {
	Deliver(ctx context.Context, p notification.Payload) error
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(ctx context.Context, p notification.Payload) error

func (f DelivererFunc) Deliver(ctx context.Context, p notification.Payload) error {
	return f(ctx, p)
}

// FallbackDeliverer tries each transport in order and stops at the first
// success. It reports one outcome to the engine: nil if any transport
// succeeded, the joined errors otherwise.
type FallbackDeliverer struct {
	deliverers []Deliverer
	logger     *slog.Logger
}

// FallbackOption configures a FallbackDeliverer.
type FallbackOption func(*FallbackDeliverer)

// WithFallbackLogger sets the logger for the FallbackDeliverer.
func WithFallbackLogger(log *slog.Logger) FallbackOption {
	return func(f *FallbackDeliverer) {
		if log != nil {
			f.logger = log
		}
	}
}

// NewFallbackDeliverer chains transports as primary plus fallbacks.
func NewFallbackDeliverer(deliverers []Deliverer, opts ...FallbackOption) (*FallbackDeliverer, error) {
	if len(deliverers) == 0 {
		return nil, ErrNoDeliverers
	}

	f := &FallbackDeliverer{
		deliverers: deliverers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *FallbackDeliverer) Deliver(ctx context.Context, p notification.Payload) error {
	var errs []error
	for i, d := range f.deliverers {
		err := d.Deliver(ctx, p)
		if err == nil {
			return nil
		}
		f.logger.LogAttrs(ctx, slog.LevelWarn, "Transport failed, trying next",
			slog.Int("deliverer_index", i),
			logger.Error(err),
		)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NoOpDeliverer accepts every payload without doing anything. Useful for
// tests and for running the scheduler as a pure state machine.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(ctx context.Context, p notification.Payload) error {
	return nil
}
