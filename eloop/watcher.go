//go:build linux

package eloop

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

type watcherKind int

const (
	ioKind watcherKind = iota + 1
	signalKind
	timerKind
	eventKind
	fsKind
)

// Watcher binds one kernel-observable source to a callback.  The caller owns
// the Watcher's memory and must keep it alive while it is active; the loop
// only links it into its intrusive list.
type Watcher struct {
	ctx    *Loop
	kind   watcherKind
	cb     Callback
	arg    interface{}
	events uint32

	// active: 0 inactive, +1 registered in the kernel, -1 pseudo-registered
	// through the stdin-from-file workaround.
	active int

	prev, next *Watcher

	// Fd is the kernel object being watched, -1 when detached.  Signal,
	// timer, event and fs watchers own their fd; for I/O watchers the
	// caller does and the loop never closes it.
	Fd int

	// Signo is the signal number of a signal watcher.
	Signo int

	// timer payload, milliseconds
	timeout int
	period  int

	// fs payload
	path     string
	mask     uint32
	wd       int
	fsEvents []sys.FsEvent
}

// Active reports whether w holds a kernel registration.
func (w *Watcher) Active() bool {
	return w != nil && w.active > 0
}

// Loop returns the loop w is bound to.
func (w *Watcher) Loop() *Loop {
	if w == nil {
		return nil
	}
	return w.ctx
}

func (that *Loop) initWatcher(w *Watcher, kind watcherKind, cb Callback, arg interface{}, fd int, events uint32) error {
	if that == nil {
		return errs.ErrNilLoop
	}
	if w == nil {
		return errs.ErrNilWatcher
	}

	w.ctx = that
	w.kind = kind
	w.active = 0
	w.Fd = fd
	w.cb = cb
	w.arg = arg
	w.events = events

	return nil
}

func (w *Watcher) startWatcher() error {
	if w == nil || w.Fd < 0 || w.ctx == nil {
		return errs.ErrNilWatcher
	}

	if w.Active() {
		return nil
	}

	if err := sys.AddWatch(w.ctx.pollFd, w.Fd, w.events|RdHup); err != nil {
		if !errors.Is(err, unix.EPERM) {
			return err
		}

		// Handle special case: `application < file.txt`.  epoll refuses
		// regular files with EPERM; only a read-only I/O watcher on stdin
		// gets the pseudo-registration treatment.
		if w.kind != ioKind || w.events != Read || w.Fd != 0 {
			return err
		}

		w.ctx.workaround = true
		w.active = -1
	} else {
		w.active = 1
		w.ctx.registry[w.Fd] = w
	}

	w.ctx.insert(w)

	return nil
}

func (w *Watcher) stopWatcher() error {
	if w == nil {
		return errs.ErrNilWatcher
	}

	if w.active == 0 {
		return nil
	}
	registered := w.active > 0
	w.active = 0

	w.ctx.remove(w)

	if !registered {
		// Pseudo-registered watchers have nothing in the kernel.
		return nil
	}

	delete(w.ctx.registry, w.Fd)
	return sys.DelWatch(w.ctx.pollFd, w.Fd)
}

// rearmWatcher refreshes an existing registration in place, used for
// one-shot watchers the kernel has disabled after firing.
func (w *Watcher) rearmWatcher() error {
	if w == nil || w.Fd < 0 || w.ctx == nil {
		return errs.ErrNilWatcher
	}
	return sys.ModWatch(w.ctx.pollFd, w.Fd, w.events|RdHup)
}

// Intrusive list bookkeeping.  Insert-at-head, remove-by-node; traversal
// fetches next before running anything that may mutate the list.

func (that *Loop) insert(w *Watcher) {
	next := that.watchers
	that.watchers = w
	if next != nil {
		next.prev = w
	}
	w.next = next
	w.prev = nil
}

func (that *Loop) remove(w *Watcher) {
	prev, next := w.prev, w.next
	if prev != nil {
		prev.next = next
	}
	if next != nil {
		next.prev = prev
	}
	w.prev = nil
	w.next = nil
	if that.watchers == w {
		that.watchers = next
	}
}
