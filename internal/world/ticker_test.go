package world

import (
	"testing"
	"time"
)

func TestTickerRunsUpdates(t *testing.T) {
	w, inst, rec := newTestWorld(t)
	w.Spawn(inst, testTemplate(), SpawnOptions{})

	tk := NewTicker(w, 5*time.Millisecond)
	tk.Start()
	tk.Start() // no-op while running

	deadline := time.Now().Add(2 * time.Second)
	for tk.Ticks() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	tk.Stop()
	tk.Stop() // no-op when stopped

	if tk.Ticks() < 3 {
		t.Fatalf("Ticks() = %d, want at least 3", tk.Ticks())
	}
	if !rec.has("update") {
		t.Error("Ticker should drive creature updates")
	}

	after := tk.Ticks()
	time.Sleep(20 * time.Millisecond)
	if tk.Ticks() != after {
		t.Error("Ticker kept running after Stop")
	}
}

func TestNewTickerDefaultsInterval(t *testing.T) {
	tk := NewTicker(New(nil), 0)
	if tk.interval != time.Second {
		t.Errorf("interval = %v, want 1s", tk.interval)
	}
}
