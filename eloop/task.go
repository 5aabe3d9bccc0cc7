//go:build linux

package eloop

import (
	"sync/atomic"

	"github.com/moqsien/processes/logger"

	"github.com/moqsien/miniev/sys"
	"github.com/moqsien/miniev/utils/errs"
	"github.com/moqsien/miniev/utils/queue"
)

// MaxTasks caps how many normal-priority tasks one wakeup drains, so a busy
// producer cannot starve watcher dispatch.
const MaxTasks = 256

type TaskArg = queue.TaskArg

type TaskFunc = queue.TaskFunc

// AddTask posts f to be run on the loop thread during the next wakeup.
// Safe to call from any goroutine.  Task errors are logged, not propagated.
func (that *Loop) AddTask(f TaskFunc, arg TaskArg) error {
	if that == nil || that.registry == nil {
		return errs.ErrNilLoop
	}

	task := queue.GetTask()
	task.Go, task.Arg = f, arg
	that.tasks.Enqueue(task)

	return that.wakeup()
}

// AddPriorTask is AddTask for work that must run before any queued normal
// tasks; the priority queue is always drained completely.
func (that *Loop) AddPriorTask(f TaskFunc, arg TaskArg) error {
	if that == nil || that.registry == nil {
		return errs.ErrNilLoop
	}

	task := queue.GetTask()
	task.Go, task.Arg = f, arg
	that.priorTasks.Enqueue(task)

	return that.wakeup()
}

func (that *Loop) wakeup() error {
	if that.taskWake == nil {
		return errs.ErrNilLoop
	}
	if atomic.CompareAndSwapInt32(&that.toWakeup, 0, 1) {
		return sys.Trigger(that.taskWake.Fd)
	}
	return nil
}

// initTaskWake creates the internal eventfd watcher that wakes the
// dispatcher for posted tasks.  It lives in the registry but not on the
// watcher list: posted tasks alone must not keep Run from returning once
// the caller's watchers are gone.
func (that *Loop) initTaskWake() error {
	fd, err := sys.CreateEventFd()
	if err != nil {
		return err
	}

	w := &Watcher{
		ctx:    that,
		kind:   eventKind,
		Fd:     fd,
		events: Read,
		active: 1,
	}
	w.cb = func(_ *Watcher, _ interface{}, _ uint32) {
		that.runTasks()
	}

	if err = sys.AddWatch(that.pollFd, fd, Read|RdHup); err != nil {
		sys.CloseFd(fd)
		return err
	}

	that.registry[fd] = w
	that.taskWake = w

	return nil
}

func (that *Loop) exitTaskWake() {
	if that.taskWake == nil {
		return
	}
	delete(that.registry, that.taskWake.Fd)
	sys.CloseFd(that.taskWake.Fd)
	that.taskWake = nil
}

func (that *Loop) runTasks() {
	t := that.priorTasks.Dequeue()
	for ; t != nil; t = that.priorTasks.Dequeue() {
		that.runTask(t)
	}

	for i := 0; i < MaxTasks; i++ {
		if t = that.tasks.Dequeue(); t == nil {
			break
		}
		that.runTask(t)
	}

	atomic.StoreInt32(&that.toWakeup, 0)
	if (!that.tasks.IsEmpty() || !that.priorTasks.IsEmpty()) && atomic.CompareAndSwapInt32(&that.toWakeup, 0, 1) {
		sys.Trigger(that.taskWake.Fd)
	}
}

func (that *Loop) runTask(task *queue.Task) {
	if that.pool == nil {
		if err := task.Go(task.Arg); err != nil {
			logger.Warningf("error occurs in user-defined task, %v", err)
		}
		queue.PutTask(task)
		return
	}

	that.pool.Submit(func() {
		if err := task.Go(task.Arg); err != nil {
			logger.Warningf("error occurs in user-defined task, %v", err)
		}
		queue.PutTask(task)
	})
}
