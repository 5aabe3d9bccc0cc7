//go:build linux

package eloop

import (
	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

// SignalInit creates a watcher for signo backed by a signalfd.  The signal
// is blocked on the loop thread so it reaches the descriptor instead of its
// default disposition; call from the goroutine that runs the loop.
func (that *Loop) SignalInit(w *Watcher, cb Callback, arg interface{}, signo int) error {
	if that == nil {
		return errs.ErrNilLoop
	}
	if w == nil {
		return errs.ErrNilWatcher
	}
	w.Fd = -1

	fd, err := sys.CreateSignalFd()
	if err != nil {
		return err
	}

	if err = that.initWatcher(w, signalKind, cb, arg, fd, Read); err != nil {
		sys.CloseFd(fd)
		return err
	}

	if err = w.SignalSet(signo); err != nil {
		w.stopWatcher()
		sys.CloseFd(fd)
		w.Fd = -1
		return err
	}

	return nil
}

// SignalSet retargets the watcher to a new signal number and starts it.
func (w *Watcher) SignalSet(signo int) error {
	if w == nil || w.ctx == nil {
		return errs.ErrNilWatcher
	}

	// Remember for callbacks and start/stop.
	w.Signo = signo

	// Handle stopped signal watchers, their fd is gone.
	if w.Fd < 0 {
		return w.ctx.SignalInit(w, w.cb, w.arg, signo)
	}

	if err := sys.UpdateSignalFd(w.Fd, signo); err != nil {
		return err
	}

	return w.startWatcher()
}

// SignalStart restarts the watcher on its stored signal number, recreating
// the signalfd if needed.
func (w *Watcher) SignalStart() error {
	if w == nil {
		return errs.ErrNilWatcher
	}

	if w.Fd != -1 {
		w.SignalStop()
	}

	return w.SignalSet(w.Signo)
}

// SignalStop deregisters the watcher and closes its signalfd.
func (w *Watcher) SignalStop() error {
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
