//go:build linux

package sys

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/utils"
)

var ePool = &sync.Pool{New: func() interface{} {
	return &unix.EpollEvent{}
}}

func eGet() *unix.EpollEvent {
	return ePool.Get().(*unix.EpollEvent)
}

func ePut(event *unix.EpollEvent) {
	ePool.Put(event)
}

func epollFdHandler(pollFd, fd, ctlAction int, evs uint32) (err error) {
	var event *unix.EpollEvent
	if ctlAction != unix.EPOLL_CTL_DEL {
		event = eGet()
		defer ePut(event)
		event.Fd, event.Events = int32(fd), evs
	}
	err = unix.EpollCtl(pollFd, ctlAction, fd, event)
	var eSysName string
	switch ctlAction {
	case unix.EPOLL_CTL_ADD:
		eSysName = "epoll_ctl_add"
	case unix.EPOLL_CTL_MOD:
		eSysName = "epoll_ctl_mod"
	case unix.EPOLL_CTL_DEL:
		eSysName = "epoll_ctl_del"
	default:
	}
	return utils.SysError(eSysName, err)
}

func AddWatch(pollFd, fd int, evs uint32) error {
	return epollFdHandler(pollFd, fd, unix.EPOLL_CTL_ADD, evs)
}

func ModWatch(pollFd, fd int, evs uint32) error {
	return epollFdHandler(pollFd, fd, unix.EPOLL_CTL_MOD, evs)
}

func DelWatch(pollFd, fd int) error {
	return epollFdHandler(pollFd, fd, unix.EPOLL_CTL_DEL, 0)
}

func CreatePoll() (pollFd int, err error) {
	pollFd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		err = utils.SysError("epoll_create1", err)
	}
	return
}

// WaitPoll blocks for at most timeout milliseconds (-1 blocks indefinitely).
// EINTR is returned to the caller, the dispatcher owns the retry policy.
func WaitPoll(pollFd int, events []unix.EpollEvent, timeout int) (n int, err error) {
	return unix.EpollWait(pollFd, events, timeout)
}
