//go:build linux

package eloop

import (
	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

// FsInit creates a filesystem watcher for path backed by its own inotify
// instance.  mask is a set of unix.IN_* bits.  Parsed change records are
// available through FsEvents from inside the callback.
func (that *Loop) FsInit(w *Watcher, cb Callback, arg interface{}, path string, mask uint32) error {
	if that == nil {
		return errs.ErrNilLoop
	}
	if w == nil {
		return errs.ErrNilWatcher
	}

	fd, err := sys.CreateInotify()
	if err != nil {
		return err
	}

	wd, err := sys.AddFsWatch(fd, path, mask)
	if err != nil {
		sys.CloseFd(fd)
		return err
	}

	if err = that.initWatcher(w, fsKind, cb, arg, fd, Read); err != nil {
		sys.CloseFd(fd)
		return err
	}
	w.path = path
	w.mask = mask
	w.wd = wd

	if err = w.startWatcher(); err != nil {
		sys.CloseFd(fd)
		w.Fd = -1
		return err
	}

	return nil
}

// FsSet retargets the watcher to a new path or mask.
func (w *Watcher) FsSet(path string, mask uint32) error {
	if w == nil || w.ctx == nil {
		return errs.ErrNilWatcher
	}

	w.FsStop()

	return w.ctx.FsInit(w, w.cb, w.arg, path, mask)
}

// FsStart restarts the watcher on its stored path and mask.
func (w *Watcher) FsStart() error {
	if w == nil {
		return errs.ErrNilWatcher
	}

	if w.Fd != -1 {
		w.FsStop()
	}

	return w.FsSet(w.path, w.mask)
}

// FsStop drops the kernel watch, deregisters the watcher and closes its
// inotify fd.
func (w *Watcher) FsStop() error {
	if w == nil {
		return errs.ErrNilWatcher
	}
	if !w.Active() {
		return nil
	}

	if err := w.stopWatcher(); err != nil {
		return err
	}

	sys.RmFsWatch(w.Fd, w.wd)
	sys.CloseFd(w.Fd)
	w.Fd = -1
	w.wd = -1

	return nil
}

// FsEvents returns the records drained for the current dispatch.  Valid
// only inside the callback; the next dispatch overwrites it.
func (w *Watcher) FsEvents() []sys.FsEvent {
	if w == nil {
		return nil
	}
	return w.fsEvents
}
