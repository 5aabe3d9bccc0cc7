//go:build linux

/*
Package eloop is a micro event loop: a single epoll instance multiplexing
byte-stream descriptors, timers, POSIX signals, filesystem changes and
user-posted events.  Timers and signals are kernel descriptor objects
(timerfd, signalfd) so the whole loop is one multiplexed wait.

Callers own their Watcher values; the loop references them only while they
are active.  The loop is single-threaded: exactly one goroutine may call Run
or any watcher operation, and callbacks execute synchronously on that
goroutine.  The only operations safe from elsewhere are Post, AddTask and
AddPriorTask.
*/
package eloop

import (
	"golang.org/x/sys/unix"
)

// Event bits.  They mirror the epoll constants; signal, timer, event and fs
// watchers report Read, or Error (Hup for event watchers) when draining
// their descriptor fails.
const (
	None    uint32 = 0
	Error   uint32 = unix.EPOLLERR
	Read    uint32 = unix.EPOLLIN
	Write   uint32 = unix.EPOLLOUT
	Pri     uint32 = unix.EPOLLPRI
	Hup     uint32 = unix.EPOLLHUP
	RdHup   uint32 = unix.EPOLLRDHUP
	Edge    uint32 = unix.EPOLLET
	OneShot uint32 = unix.EPOLLONESHOT
)

// eventMask is the set of bits a callback may observe.
const eventMask = Error | Read | Write | Pri | RdHup | Hup | Edge | OneShot

// Run flags.
const (
	// Once returns from Run after a single wait cycle.
	Once = 0x01
	// NonBlock makes each wait cycle return immediately when nothing is ready.
	NonBlock = 0x02
)

// Callback is invoked for every ready watcher.  Events is masked to the
// valid bit set.  Callbacks must tolerate Error, and I/O callbacks may see
// Hup on an already-stopped watcher.
type Callback func(w *Watcher, arg interface{}, events uint32)
