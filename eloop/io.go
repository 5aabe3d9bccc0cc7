//go:build linux

package eloop

import (
	"github.com/moqsien/miniev/utils/errs"
)

// IOInit creates an I/O watcher for a caller-owned descriptor and registers
// it.  events is a mask of Read, Write, Pri, Edge and OneShot.  The loop
// never closes fd.
func (that *Loop) IOInit(w *Watcher, cb Callback, arg interface{}, fd int, events uint32) error {
	if fd < 0 {
		return errs.ErrNegativeFd
	}

	if err := that.initWatcher(w, ioKind, cb, arg, fd, events); err != nil {
		return err
	}

	return w.startWatcher()
}

// IOSet resets the watcher to a new descriptor or event mask.  On an active
// one-shot watcher it re-arms the existing kernel registration in place;
// otherwise it stops and re-registers.
func (w *Watcher) IOSet(fd int, events uint32) error {
	if w == nil || w.ctx == nil {
		return errs.ErrNilWatcher
	}

	if events&OneShot != 0 && w.Active() {
		return w.rearmWatcher()
	}

	// Ignore any errors, only to clean up anything lingering.
	w.IOStop()

	return w.ctx.IOInit(w, w.cb, w.arg, fd, events)
}

// IOStart registers the watcher again with its stored descriptor and mask.
func (w *Watcher) IOStart() error {
	if w == nil {
		return errs.ErrNilWatcher
	}
	return w.IOSet(w.Fd, w.events)
}

// IOStop deregisters the watcher.
func (w *Watcher) IOStop() error {
	return w.stopWatcher()
}
