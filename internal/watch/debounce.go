package watch

import (
	"context"
	"sync"
	"time"
)

// DebounceConfig tunes event coalescing.
type DebounceConfig struct {
	// QuietWindow is how long the tree must stay quiet before a rebuild.
	QuietWindow time.Duration
	// MaxDelay bounds postponement: a steady stream of edits cannot defer
	// the rebuild forever.
	MaxDelay time.Duration
}

// Debouncer coalesces bursts of change notifications into single rebuild
// triggers. It is safe to call Request from multiple goroutines while one
// goroutine runs Run.
type Debouncer struct {
	cfg     DebounceConfig
	fire    func()
	mu      sync.Mutex
	pending bool
	firstAt time.Time
	lastAt  time.Time
	wake    chan struct{}
}

// NewDebouncer creates a debouncer that calls fire for each coalesced burst.
func NewDebouncer(cfg DebounceConfig, fire func()) *Debouncer {
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = 300 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	return &Debouncer{cfg: cfg, fire: fire, wake: make(chan struct{}, 1)}
}

// Request notes one change notification.
func (d *Debouncer) Request() {
	d.mu.Lock()
	now := time.Now()
	if !d.pending {
		d.pending = true
		d.firstAt = now
	}
	d.lastAt = now
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (d *Debouncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.QuietWindow / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		case <-ticker.C:
		}

		if d.shouldFire(time.Now()) {
			d.fire()
		}
	}
}

func (d *Debouncer) shouldFire(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return false
	}
	quiet := now.Sub(d.lastAt) >= d.cfg.QuietWindow
	overdue := now.Sub(d.firstAt) >= d.cfg.MaxDelay
	if quiet || overdue {
		d.pending = false
		return true
	}
	return false
}
