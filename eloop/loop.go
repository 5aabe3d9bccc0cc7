//go:build linux

package eloop

import (
	"github.com/panjf2000/ants/v2"

	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
	"github.com/moqsien/miniev/utils/queue"
)

// Loop is the loop-wide state: the epoll instance, the watcher list and the
// task machinery.  It owns the epoll fd and the internal wakeup eventfd; it
// does not own any Watcher.
type Loop struct {
	pollFd    int
	maxEvents int

	running    bool
	workaround bool

	watchers *Watcher         // head of the intrusive watcher list
	registry map[int]*Watcher // fd -> watcher, stands in for epoll_data.ptr

	// posted-task machinery, see task.go
	taskWake   *Watcher
	tasks      queue.TaskQueue
	priorTasks queue.TaskQueue
	toWakeup   int32
	poolSize   int
	pool       *ants.Pool
}

type Option func(*Loop)

// WithTaskPool runs posted tasks on a goroutine pool of the given size
// instead of the loop thread.
func WithTaskPool(size int) Option {
	return func(l *Loop) {
		l.poolSize = size
	}
}

// New creates an event loop whose wait cycle reports at most maxEvents ready
// watchers.  maxEvents = 1 guarantees a callback never observes a stale
// ready record for a watcher stopped earlier in the same batch.
func New(maxEvents int, opts ...Option) (*Loop, error) {
	if maxEvents < 1 {
		return nil, errs.ErrBadMaxEvents
	}

	pollFd, err := sys.CreatePoll()
	if err != nil {
		return nil, err
	}

	l := &Loop{
		pollFd:     pollFd,
		maxEvents:  maxEvents,
		registry:   make(map[int]*Watcher),
		tasks:      queue.NewQueue(),
		priorTasks: queue.NewQueue(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err = l.initTaskWake(); err != nil {
		sys.CloseFd(pollFd)
		return nil, err
	}
	if l.poolSize > 0 {
		if l.pool, err = ants.NewPool(l.poolSize); err != nil {
			l.exitTaskWake()
			sys.CloseFd(pollFd)
			return nil, err
		}
	}

	return l, nil
}

// Exit stops every remaining watcher, tears down the task machinery and
// closes the epoll fd.  Safe to call twice, and safe from a callback: the
// dispatcher observes running == false, dispatches no further records of
// the current batch and returns.
func (that *Loop) Exit() error {
	if that == nil || that.registry == nil {
		return errs.ErrNilLoop
	}

	for w := that.watchers; w != nil; {
		next := w.next
		that.remove(w)

		if w.active != 0 {
			switch w.kind {
			case timerKind:
				w.TimerStop()
			case ioKind:
				w.IOStop()
			case signalKind:
				w.SignalStop()
			case fsKind:
				w.FsStop()
			case eventKind:
				w.EventStop()
			}
		}

		w = next
	}

	that.watchers = nil
	that.running = false

	that.exitTaskWake()
	if that.pool != nil {
		that.pool.Release()
		that.pool = nil
	}

	if that.pollFd > -1 {
		sys.CloseFd(that.pollFd)
	}
	that.pollFd = -1

	return nil
}

// Quit asks a running dispatcher to return.  Ready records of the current
// batch that have not been dispatched yet are skipped.
func (that *Loop) Quit() {
	if that != nil {
		that.running = false
	}
}

func (that *Loop) Running() bool {
	return that != nil && that.running
}

// NumWatchers counts the watchers currently on the list.
func (that *Loop) NumWatchers() (n int) {
	if that == nil {
		return 0
	}
	for w := that.watchers; w != nil; w = w.next {
		n++
	}
	return
}
