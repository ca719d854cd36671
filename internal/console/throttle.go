package console

import (
	"sync"
	"time"
)

// ThrottleConfig limits how fast one session may issue commands.
type ThrottleConfig struct {
	Enabled     bool
	MaxCommands int           // commands allowed per window
	Window      time.Duration // sliding window length
}

// DefaultThrottleConfig allows ten commands every five seconds.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		Enabled:     true,
		MaxCommands: 10,
		Window:      5 * time.Second,
	}
}

// throttle tracks one session's recent commands over a sliding window.
type throttle struct {
	mu    sync.Mutex
	cfg   ThrottleConfig
	times []time.Time
	now   func() time.Time
}

func newThrottle(cfg ThrottleConfig) *throttle {
	if cfg.MaxCommands <= 0 {
		cfg.MaxCommands = DefaultThrottleConfig().MaxCommands
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultThrottleConfig().Window
	}
	return &throttle{
		cfg:   cfg,
		times: make([]time.Time, 0, cfg.MaxCommands),
		now:   time.Now,
	}
}

// Allow records a command and reports whether it may run. When it may not,
// wait is how long until the oldest command leaves the window.
func (t *throttle) Allow() (ok bool, wait time.Duration) {
	if !t.cfg.Enabled {
		return true, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cutoff := now.Add(-t.cfg.Window)
	kept := t.times[:0]
	for _, at := range t.times {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	t.times = kept

	if len(t.times) >= t.cfg.MaxCommands {
		return false, t.times[0].Add(t.cfg.Window).Sub(now)
	}
	t.times = append(t.times, now)
	return true, 0
}
