//go:build linux

package eloop

import (
	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

// TimerInit creates a timer watcher backed by a monotonic timerfd.  The
// first expiration comes timeoutMs from when the timer is armed, then every
// periodMs; a zero period makes it single-shot.  Timers are (re)armed on
// entry to Run, so a timer created before Run counts from the moment the
// loop starts.
func (that *Loop) TimerInit(w *Watcher, cb Callback, arg interface{}, timeoutMs, periodMs int) error {
	if that == nil {
		return errs.ErrNilLoop
	}
	if w == nil {
		return errs.ErrNilWatcher
	}
	if timeoutMs < 0 || periodMs < 0 {
		return errs.ErrTimerRange
	}

	fd, err := sys.CreateTimerFd()
	if err != nil {
		return err
	}

	if err = that.initWatcher(w, timerKind, cb, arg, fd, Read); err != nil {
		sys.CloseFd(fd)
		return err
	}

	if err = w.TimerSet(timeoutMs, periodMs); err != nil {
		w.stopWatcher()
		sys.CloseFd(fd)
		w.Fd = -1
		return err
	}

	return nil
}

// TimerSet re-arms the watcher with a new timeout and period.
func (w *Watcher) TimerSet(timeoutMs, periodMs int) error {
	if w == nil || w.ctx == nil {
		return errs.ErrNilWatcher
	}
	if timeoutMs < 0 || periodMs < 0 {
		return errs.ErrTimerRange
	}

	// Handle stopped timers, their fd is gone.
	if w.Fd < 0 {
		return w.ctx.TimerInit(w, w.cb, w.arg, timeoutMs, periodMs)
	}

	w.timeout = timeoutMs
	w.period = periodMs

	if err := sys.ArmTimerFd(w.Fd, timeoutMs, periodMs); err != nil {
		return err
	}

	return w.startWatcher()
}

// TimerStart restarts the watcher with its stored timeout and period.
func (w *Watcher) TimerStart() error {
	if w == nil {
		return errs.ErrNilWatcher
	}

	if w.Fd != -1 {
		w.TimerStop()
	}

	return w.TimerSet(w.timeout, w.period)
}

// TimerStop disarms the timer, deregisters the watcher and closes the fd.
func (w *Watcher) TimerStop() error {
	if w == nil {
		return errs.ErrNilWatcher
	}
	if !w.Active() {
		return nil
	}

	if err := w.stopWatcher(); err != nil {
		return err
	}

	sys.DisarmTimerFd(w.Fd)
	sys.CloseFd(w.Fd)
	w.Fd = -1

	return nil
}
