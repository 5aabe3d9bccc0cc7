//go:build linux

package sys

import (
	"golang.org/x/sys/unix"
)

// HasData is a non-destructive readability probe for descriptors epoll
// refuses, e.g. stdin redirected from a regular file.  A zero-timeout select
// finds readiness, FIONREAD confirms there are bytes left to read.
func HasData(fd int) bool {
	var fds unix.FdSet
	fds.Zero()
	fds.Set(fd)

	tv := unix.Timeval{}
	n, err := unix.Select(fd+1, &fds, nil, nil, &tv)
	if err != nil || n <= 0 {
		return false
	}

	cnt, err := unix.IoctlGetInt(fd, unix.TIOCINQ)
	return err == nil && cnt > 0
}
