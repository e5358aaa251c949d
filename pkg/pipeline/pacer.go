package pipeline

import (
	"context"
	"time"
)

// Pacer paces the capture loop.
type Pacer interface {
	// Wait blocks until the next tick or until ctx is done.
	Wait(ctx context.Context) error
	// Stop releases pacer resources.
	Stop()
}

// TickerPacer ticks at a fixed period independent of encode throughput.
type TickerPacer struct {
	ticker *time.Ticker
}

// NewTickerPacer creates a TickerPacer. A non-positive period falls back to
// 17ms.
func NewTickerPacer(period time.Duration) *TickerPacer {
	if period <= 0 {
		period = 17 * time.Millisecond
	}
	return &TickerPacer{ticker: time.NewTicker(period)}
}

// Wait blocks until the next tick.
func (p *TickerPacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

// Stop stops the ticker.
func (p *TickerPacer) Stop() {
	p.ticker.Stop()
}

// InstantPacer never waits. Used by tests and offline rendering.
type InstantPacer struct{}

// Wait returns immediately unless ctx is done.
func (InstantPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Stop does nothing.
func (InstantPacer) Stop() {}
