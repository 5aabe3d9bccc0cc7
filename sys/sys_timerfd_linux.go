//go:build linux

package sys

import (
	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/utils"
)

func CreateTimerFd() (fd int, err error) {
	fd, err = unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		err = utils.SysError("timerfd_create", err)
	}
	return
}

func msec2tspec(msec int) unix.Timespec {
	if msec == 0 {
		return unix.Timespec{}
	}
	return unix.Timespec{
		Sec:  int64(msec / 1000),
		Nsec: int64(msec%1000) * 1000000,
	}
}

// ArmTimerFd arms fd to expire timeoutMs from now and every periodMs
// thereafter (zero period means single-shot).  A zero timeout is bumped to
// 1 ns: timerfd_settime with a zero initial value disarms the timer.
func ArmTimerFd(fd, timeoutMs, periodMs int) error {
	spec := unix.ItimerSpec{
		Interval: msec2tspec(periodMs),
		Value:    msec2tspec(timeoutMs),
	}
	if timeoutMs == 0 {
		spec.Value.Nsec = 1
	}
	return utils.SysError("timerfd_settime", unix.TimerfdSettime(fd, 0, &spec, nil))
}

func DisarmTimerFd(fd int) error {
	spec := unix.ItimerSpec{}
	return utils.SysError("timerfd_settime", unix.TimerfdSettime(fd, 0, &spec, nil))
}

// ReadCounter drains the 8-byte expiration/post counter of a timerfd or
// eventfd.  A short read is reported as an error.
func ReadCounter(fd int) (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, utils.SysError("read", err)
	}
	if n != len(buf) {
		return 0, unix.EIO
	}
	var cnt uint64
	for i := 7; i >= 0; i-- {
		cnt = cnt<<8 | uint64(buf[i])
	}
	return cnt, nil
}
