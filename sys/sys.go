package sys

import (
	"golang.org/x/sys/unix"
)

func CloseFd(fd int) error {
	return unix.Close(fd)
}

func Write(fd int, p []byte) (n int, err error) {
	return unix.Write(fd, p)
}

func Read(fd int, p []byte) (n int, err error) {
	return unix.Read(fd, p)
}
