//go:build linux

package sys

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/utils"
)

var (
	u uint64 = 1
	b        = (*(*[8]byte)(unsafe.Pointer(&u)))[:]
)

func CreateEventFd() (fd int, err error) {
	fd, err = unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		err = utils.SysError("eventfd", err)
	}
	return
}

// Trigger bumps the eventfd counter by one, waking any poller that watches
// it.  EAGAIN means the counter is saturated and the poller is already due
// to wake up, so it is not an error.
func Trigger(evFd int) (err error) {
	if _, err = unix.Write(evFd, b); err == unix.EAGAIN {
		err = nil
	}
	return utils.SysError("write", err)
}
