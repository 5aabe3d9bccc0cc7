package errs

import "errors"

var (
	ErrNilLoop      = errors.New("nil or uninitialized event loop")
	ErrNilWatcher   = errors.New("nil or unbound watcher")
	ErrBadMaxEvents = errors.New("maxevents must be at least 1")
	ErrNegativeFd   = errors.New("negative file descriptor")
	ErrTimerRange   = errors.New("timer timeout and period must not be negative")
	ErrPollFailed   = errors.New("unrecoverable poll failure, loop has been torn down")
)
