//go:build linux

package eloop

import (
	"testing"

	"golang.org/x/sys/unix"
)

func pipe2(t *testing.T) (r, w int) {
	t.Helper()
	p := make([]int, 2)
	if err := unix.Pipe(p); err != nil {
		t.Fatal(err)
	}
	return p[0], p[1]
}

func TestPipeRead(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	rfd, wfd := pipe2(t)
	defer unix.Close(rfd)
	defer unix.Close(wfd)

	var got string
	var fired int
	iow := &Watcher{}
	err = l.IOInit(iow, func(w *Watcher, _ interface{}, events uint32) {
		fired++
		if events&Read == 0 {
			t.Errorf("expected Read, got %#x", events)
		}
		buf := make([]byte, 16)
		n, _ := unix.Read(w.Fd, buf)
		got = string(buf[:n])
		w.IOStop()
		l.Quit()
	}, nil, rfd, Read)
	if err != nil {
		t.Fatal(err)
	}

	// A one-shot timer plays the producer.
	tw := &Watcher{}
	err = l.TimerInit(tw, func(*Watcher, interface{}, uint32) {
		unix.Write(wfd, []byte("hi"))
	}, nil, 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected 1 I/O callback, got %d", fired)
	}
	if got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
	if iow.Active() {
		t.Fatal("watcher still active on exit")
	}
}

func TestPipeHupStopsWatcherBeforeCallback(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	rfd, wfd := pipe2(t)
	defer unix.Close(rfd)

	var sawHup, wasActive bool
	w := &Watcher{}
	err = l.IOInit(w, func(w *Watcher, _ interface{}, events uint32) {
		sawHup = events&Hup != 0
		wasActive = w.Active()
		l.Quit()
	}, nil, rfd, Read)
	if err != nil {
		t.Fatal(err)
	}

	unix.Close(wfd)

	if err = l.Run(Once); err != nil {
		t.Fatal(err)
	}
	if !sawHup {
		t.Fatal("expected Hup in events")
	}
	if wasActive {
		t.Fatal("watcher should be stopped before the callback on HUP")
	}
}

func TestInitStartStopLaw(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	rfd, wfd := pipe2(t)
	defer unix.Close(rfd)
	defer unix.Close(wfd)

	w := &Watcher{}
	if err = l.IOInit(w, nil, nil, rfd, Read); err != nil {
		t.Fatal(err)
	}
	if !w.Active() || l.NumWatchers() != 1 {
		t.Fatal("watcher not registered after init")
	}

	if err = w.IOStop(); err != nil {
		t.Fatal(err)
	}
	if w.Active() || l.NumWatchers() != 0 {
		t.Fatal("watcher still registered after stop")
	}

	if err = w.IOStart(); err != nil {
		t.Fatal(err)
	}
	if !w.Active() || l.NumWatchers() != 1 {
		t.Fatal("watcher not registered after start")
	}

	if err = w.IOStop(); err != nil {
		t.Fatal(err)
	}
	if w.Active() || l.NumWatchers() != 0 {
		t.Fatal("watcher still registered after second stop")
	}
}

func TestOneShotRearmKeepsNode(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	rfd, wfd := pipe2(t)
	defer unix.Close(rfd)
	defer unix.Close(wfd)

	unix.Write(wfd, []byte("x"))

	var fired int
	w := &Watcher{}
	err = l.IOInit(w, func(*Watcher, interface{}, uint32) {
		fired++
	}, nil, rfd, Read|OneShot)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(Once); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Fatalf("expected 1 firing, got %d", fired)
	}

	// Re-arming an active one-shot watcher is a kernel modify, not a list
	// remove/insert.
	if err = w.IOSet(rfd, Read|OneShot); err != nil {
		t.Fatal(err)
	}
	if !w.Active() || l.NumWatchers() != 1 {
		t.Fatal("rearm must keep the watcher registered")
	}

	if err = l.Run(Once); err != nil {
		t.Fatal(err)
	}
	if fired != 2 {
		t.Fatalf("expected 2 firings after rearm, got %d", fired)
	}
}

func TestNonBlockWithNothingReady(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	rfd, wfd := pipe2(t)
	defer unix.Close(rfd)
	defer unix.Close(wfd)

	var fired int
	w := &Watcher{}
	err = l.IOInit(w, func(*Watcher, interface{}, uint32) {
		fired++
	}, nil, rfd, Read)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(Once | NonBlock); err != nil {
		t.Fatal(err)
	}
	if fired != 0 {
		t.Fatalf("expected no callbacks, got %d", fired)
	}
}

func TestIOInitRejectsNegativeFd(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	if err = l.IOInit(&Watcher{}, nil, nil, -1, Read); err == nil {
		t.Fatal("expected error for negative fd")
	}
}
