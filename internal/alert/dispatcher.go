// Package alert delivers admin alerts in the background.
package alert

import (
	"context"
	"sync"
	"time"

	"storefront/internal/companion"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config configures a Dispatcher.
type Config struct {
	// Timeout bounds each delivery.
	Timeout time.Duration
	// PerMinute is the sustained delivery rate; Burst the bucket size.
	PerMinute int
	Burst     int
}

// Dispatcher sends alerts without blocking the caller. Delivery is best-effort:
// failures are logged and never retried.
type Dispatcher struct {
	api     companion.AlertAPI
	timeout time.Duration
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering through api.
func NewDispatcher(api companion.AlertAPI, cfg Config, logger zerolog.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.PerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.PerMinute))
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Dispatcher{
		api:     api,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger.With().Str("component", "alert-dispatcher").Logger(),
	}
}

// Dispatch starts delivering a in the background and returns immediately.
// The delivery outlives ctx's cancellation but keeps its values.
func (d *Dispatcher) Dispatch(ctx context.Context, a model.AdminAlert) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn().Str("subject", a.Subject).Msg("dispatcher closed, dropping alert")
		return
	}
	if !d.limiter.Allow() {
		d.logger.Warn().Str("subject", a.Subject).Msg("alert rate limit exceeded, dropping alert")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.api.SendAlert(sendCtx, a); err != nil {
			d.logger.Error().
				Err(err).
				Str("subject", a.Subject).
				Str("severity", a.Severity).
				Msg("failed to deliver admin alert")
			return
		}
		d.logger.Info().Str("subject", a.Subject).Msg("admin alert delivered")
	}()
}

// Close stops accepting alerts and waits for in-flight deliveries or ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn().Msg("gave up waiting for in-flight alerts")
		return ctx.Err()
	}
}
