//go:build linux

package sys

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/moqsien/miniev/utils"
)

// FsEvent is one parsed inotify record.
type FsEvent struct {
	Mask   uint32
	Cookie uint32
	Name   string
}

func CreateInotify() (fd int, err error) {
	fd, err = unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		err = utils.SysError("inotify_init1", err)
	}
	return
}

func AddFsWatch(fd int, path string, mask uint32) (wd int, err error) {
	wd, err = unix.InotifyAddWatch(fd, path, mask)
	if err != nil {
		err = utils.SysError("inotify_add_watch", err)
	}
	return
}

func RmFsWatch(fd, wd int) error {
	_, err := unix.InotifyRmWatch(fd, uint32(wd))
	return utils.SysError("inotify_rm_watch", err)
}

// DrainInotify does one read on fd and parses the records it returned.  The
// buffer holds one maximum-size record (header + NAME_MAX + 1); records that
// do not fit stay queued and keep fd readable.
func DrainInotify(fd int) ([]FsEvent, error) {
	buf := make([]byte, unix.SizeofInotifyEvent+unix.NAME_MAX+1)
	n, err := unix.Read(fd, buf)
	if err != nil {
		return nil, utils.SysError("read", err)
	}
	if n < unix.SizeofInotifyEvent {
		return nil, unix.EIO
	}

	var evs []FsEvent
	offset := 0
	for offset+unix.SizeofInotifyEvent <= n {
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		nameLen := int(raw.Len)
		ev := FsEvent{Mask: raw.Mask, Cookie: raw.Cookie}
		if nameLen > 0 {
			name := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+nameLen]
			if i := bytes.IndexByte(name, 0); i >= 0 {
				name = name[:i]
			}
			ev.Name = string(name)
		}
		evs = append(evs, ev)
		offset += unix.SizeofInotifyEvent + nameLen
	}
	return evs, nil
}
