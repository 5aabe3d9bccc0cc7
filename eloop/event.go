//go:build linux

package eloop

import (
	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

// EventInit creates a user event watcher backed by an eventfd and registers
// it for Read.
func (that *Loop) EventInit(w *Watcher, cb Callback, arg interface{}) error {
	if that == nil {
		return errs.ErrNilLoop
	}
	if w == nil {
		return errs.ErrNilWatcher
	}

	fd, err := sys.CreateEventFd()
	if err != nil {
		return err
	}

	if err = that.initWatcher(w, eventKind, cb, arg, fd, Read); err != nil {
		sys.CloseFd(fd)
		return err
	}

	if err = w.startWatcher(); err != nil {
		sys.CloseFd(fd)
		w.Fd = -1
		return err
	}

	return nil
}

// Post fires the event, waking the loop.  The write is a single atomic
// kernel operation, so posting from other goroutines is safe.
func (w *Watcher) Post() error {
	if w == nil || w.Fd < 0 {
		return errs.ErrNilWatcher
	}
	return sys.Trigger(w.Fd)
}

// EventStop deregisters the watcher and closes its eventfd.
func (w *Watcher) EventStop() error {
	if w == nil {
		return errs.ErrNilWatcher
	}
	if !w.Active() {
		return nil
	}

	if err := w.stopWatcher(); err != nil {
		return err
	}

	sys.CloseFd(w.Fd)
	w.Fd = -1

	return nil
}
