//go:build linux

package sys

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/utils"
)

func sigset(signo int) *unix.Sigset_t {
	var set unix.Sigset_t
	set.Val[(signo-1)/64] |= 1 << (uint(signo-1) % 64)
	return &set
}

// CreateSignalFd allocates a signalfd with an empty signal set; the set is
// populated later through UpdateSignalFd.
func CreateSignalFd() (fd int, err error) {
	var empty unix.Sigset_t
	fd, err = unix.Signalfd(-1, &empty, unix.SFD_NONBLOCK|unix.SFD_CLOEXEC)
	if err != nil {
		err = utils.SysError("signalfd", err)
	}
	return
}

// UpdateSignalFd blocks signo on the calling thread and retargets fd to the
// singleton set {signo}.  Blocking keeps the signal from being handled
// according to its default disposition.
func UpdateSignalFd(fd, signo int) error {
	set := sigset(signo)
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, set, nil); err != nil {
		return utils.SysError("rt_sigprocmask", err)
	}
	if _, err := unix.Signalfd(fd, set, unix.SFD_NONBLOCK); err != nil {
		return utils.SysError("signalfd", err)
	}
	return nil
}

// ReadSiginfo consumes one signalfd_siginfo record.  A short read is
// reported as an error so the watcher can be restarted.
func ReadSiginfo(fd int) (unix.SignalfdSiginfo, error) {
	var info unix.SignalfdSiginfo
	buf := (*(*[unsafe.Sizeof(info)]byte)(unsafe.Pointer(&info)))[:]
	n, err := unix.Read(fd, buf)
	if err != nil {
		return info, utils.SysError("read", err)
	}
	if n != len(buf) {
		return info, unix.EIO
	}
	return info, nil
}
