package world

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/autobalance/internal/logger"
)

// Ticker drives World.Update on a fixed interval.
type Ticker struct {
	world    *World
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.Mutex
	running  bool
	ticks    uint64
}

// NewTicker creates a stopped ticker. Non-positive intervals default to one
// second.
func NewTicker(w *World, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{
		world:    w,
		interval: interval,
	}
}

// Start begins the update loop. Starting a running ticker does nothing.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopChan = make(chan struct{})
	t.doneChan = make(chan struct{})
	go t.loop(t.stopChan, t.doneChan)
	logger.Info("World ticker started", "interval", t.interval.String())
}

// Stop ends the update loop and waits for the current tick to finish.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopChan)
	done := t.doneChan
	t.mu.Unlock()

	<-done
	logger.Info("World ticker stopped")
}

// Ticks returns how many updates have run.
func (t *Ticker) Ticks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

func (t *Ticker) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.world.Update()
			t.mu.Lock()
			t.ticks++
			t.mu.Unlock()
		case <-stop:
			return
		}
	}
}
