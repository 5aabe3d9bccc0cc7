//go:build linux

package eloop

import (
	"github.com/moqsien/processes/logger"
	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
)

// Run drives the wait/dispatch cycle until Quit or Exit is called or the
// watcher list drains.  flags is a mask of Once and NonBlock.  It returns
// nil on clean termination and errs.ErrPollFailed after an unrecoverable
// wait failure, in which case the loop has already been torn down.
func (that *Loop) Run(flags int) error {
	if that == nil || that.registry == nil || that.pollFd < 0 {
		return errs.ErrNilLoop
	}

	timeout := -1
	if flags&NonBlock != 0 {
		timeout = 0
	}

	that.running = true

	// Start all dormant timers, so watchers created before Run are armed
	// relative to now.
	for w := that.watchers; w != nil; {
		next := w.next
		if w.kind == timerKind {
			w.TimerSet(w.timeout, w.period)
		}
		w = next
	}

	ee := make([]unix.EpollEvent, that.maxEvents)

	for that.running && that.watchers != nil {
		// Handle special case: `application < file.txt`.  Pseudo-registered
		// watchers never reach the kernel, so they are fired from here, one
		// pass per cycle, until the probe reports the file drained.
		if that.workaround {
			rerun := 0
			for w := that.watchers; w != nil; {
				next := w.next
				if w.active != -1 || w.cb == nil {
					w = next
					continue
				}

				if !sys.HasData(w.Fd) {
					w.active = 0
					that.remove(w)
				}

				rerun++
				w.cb(w, w.arg, Read)
				w = next
			}
			if rerun > 0 {
				continue
			}
			that.workaround = false
		}

		var n int
		for {
			var err error
			n, err = sys.WaitPoll(that.pollFd, ee, timeout)
			if err == nil {
				break
			}
			if !that.running {
				n = 0
				break
			}
			if err == unix.EINTR {
				continue
			}

			// Unrecoverable, tear down and report.
			logger.Errorf("unrecoverable error in event loop: %v", err)
			that.Exit()
			return errs.ErrPollFailed
		}

		for i := 0; that.running && i < n; i++ {
			w, ok := that.registry[int(ee[i].Fd)]
			if !ok {
				// Stopped by an earlier callback in this batch.
				continue
			}
			events := ee[i].Events

			switch w.kind {
			case ioKind:
				// A hung-up or errored descriptor would re-report forever
				// under level triggering, stop it first.  The callback still
				// receives the raw bits.
				if events&(Hup|Error) != 0 {
					w.IOStop()
				}

			case signalKind:
				if _, err := sys.ReadSiginfo(w.Fd); err != nil {
					if w.SignalStart() != nil {
						w.SignalStop()
						events = Error
					}
				}

			case timerKind:
				if _, err := sys.ReadCounter(w.Fd); err != nil {
					w.TimerStop()
					events = Error
				}
				if w.period == 0 {
					w.timeout = 0
				}
				if w.timeout == 0 {
					w.TimerStop()
				}

			case fsKind:
				evs, err := sys.DrainInotify(w.Fd)
				if err != nil {
					w.FsStop()
					events = Error
				}
				w.fsEvents = evs

			case eventKind:
				if _, err := sys.ReadCounter(w.Fd); err != nil {
					events = Hup
				}
			}

			// Must be the last action for the watcher, the callback may
			// stop or free it.
			if w.cb != nil {
				w.cb(w, w.arg, events&eventMask)
			}
		}

		if flags&Once != 0 {
			break
		}
	}

	return nil
}
