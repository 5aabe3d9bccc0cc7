//go:build linux

package eloop

import (
	"testing"
	"time"
)

func TestOneShotTimer(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	var fired int
	start := time.Now()
	w := &Watcher{}
	err = l.TimerInit(w, func(w *Watcher, _ interface{}, events uint32) {
		fired++
		if events&Read == 0 {
			t.Errorf("expected Read, got %#x", events)
		}
		w.TimerStop()
		l.Quit()
	}, nil, 50, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}

	elapsed := time.Since(start)
	if fired != 1 {
		t.Fatalf("expected 1 firing, got %d", fired)
	}
	if elapsed < 40*time.Millisecond || elapsed > time.Second {
		t.Fatalf("fired after %v, expected ~50ms", elapsed)
	}
	if w.Active() {
		t.Fatal("timer still active after stop")
	}
}

func TestPeriodicTimer(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	var ticks int
	w := &Watcher{}
	err = l.TimerInit(w, func(w *Watcher, _ interface{}, _ uint32) {
		ticks++
		if ticks == 3 {
			w.TimerStop()
			l.Quit()
		}
	}, nil, 10, 10)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", ticks)
	}
}

func TestZeroTimerFiresOnceAndStops(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	var fired int
	w := &Watcher{}
	err = l.TimerInit(w, func(w *Watcher, _ interface{}, _ uint32) {
		fired++
		if w.Active() {
			t.Error("zero timer should be auto-stopped before the callback")
		}
	}, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	// The watcher list drains when the timer auto-stops, ending the run.
	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected 1 firing, got %d", fired)
	}
	if w.Active() {
		t.Fatal("timer still active")
	}
}

func TestTimerRejectsNegative(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	w := &Watcher{}
	if err = l.TimerInit(w, nil, nil, -1, 0); err == nil {
		t.Fatal("expected error for negative timeout")
	}
	if err = l.TimerInit(w, nil, nil, 0, -1); err == nil {
		t.Fatal("expected error for negative period")
	}
}
