//go:build linux

package eloop

import (
	"sync/atomic"
	"testing"
)

func TestAddTaskRunsOnLoopThread(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	// Keep the watcher list non-empty while tasks are pending.
	anchor := &Watcher{}
	if err = l.TimerInit(anchor, nil, nil, 1000, 1000); err != nil {
		t.Fatal(err)
	}

	var ran bool
	err = l.AddTask(func(arg TaskArg) error {
		ran = arg.(string) == "payload"
		l.Quit()
		return nil
	}, "payload")
	if err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("task did not run with its argument")
	}
}

func TestPriorTasksRunFirst(t *testing.T) {
	l, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	anchor := &Watcher{}
	if err = l.TimerInit(anchor, nil, nil, 1000, 1000); err != nil {
		t.Fatal(err)
	}

	var order []string
	if err = l.AddTask(func(TaskArg) error {
		order = append(order, "normal")
		l.Quit()
		return nil
	}, nil); err != nil {
		t.Fatal(err)
	}
	if err = l.AddPriorTask(func(TaskArg) error {
		order = append(order, "prior")
		return nil
	}, nil); err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "prior" || order[1] != "normal" {
		t.Fatalf("unexpected task order: %v", order)
	}
}

func TestTaskPoolRunsTasks(t *testing.T) {
	l, err := New(8, WithTaskPool(2))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Exit()

	var done atomic.Bool
	anchor := &Watcher{}
	err = l.TimerInit(anchor, func(w *Watcher, _ interface{}, _ uint32) {
		if done.Load() {
			w.TimerStop()
			l.Quit()
		}
	}, nil, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	if err = l.AddTask(func(TaskArg) error {
		done.Store(true)
		return nil
	}, nil); err != nil {
		t.Fatal(err)
	}

	if err = l.Run(0); err != nil {
		t.Fatal(err)
	}
	if !done.Load() {
		t.Fatal("pooled task did not run")
	}
}
