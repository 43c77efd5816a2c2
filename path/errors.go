package path

import "golang.org/x/sys/unix"

// Errno is a path-engine error kind, the negative of a host errno value, à
// la PRoot's -errno return convention. It satisfies the error interface so
// callers can use errors.Is/As, but still carries the raw errno for a
// caller (e.g. the supervisor) that needs to poke the wire-compatible
// negative number into a tracee's return register.
type Errno int

func (e Errno) Error() string {
	return unix.Errno(-e).Error()
}

// Is lets errors.Is(err, ErrNoEntry) work regardless of which concrete
// Errno value wraps it, since every path-engine error is already a bare
// Errno (there is nothing to unwrap), but this keeps callers from having to
// care about that.
func (e Errno) Is(target error) bool {
	other, ok := target.(Errno)
	return ok && other == e
}

const (
	// ErrNameTooLong: a component or the assembled path would exceed its bound.
	ErrNameTooLong = Errno(-int(unix.ENAMETOOLONG))
	// ErrNotADirectory: a non-final component resolves to a non-directory,
	// or dir_fd does not refer to a directory.
	ErrNotADirectory = Errno(-int(unix.ENOTDIR))
	// ErrNoEntry: a non-final component does not exist.
	ErrNoEntry = Errno(-int(unix.ENOENT))
	// ErrTooManyLinks: symlink dereference budget exhausted.
	ErrTooManyLinks = Errno(-int(unix.ELOOP))
	// ErrPermissionDenied: detranslation would yield a path outside the
	// guest rootfs while sanity-checking is active.
	ErrPermissionDenied = Errno(-int(unix.EPERM))
	// ErrOperationFailed: unexpected failure of a host syscall during
	// anchor resolution.
	ErrOperationFailed = Errno(-int(unix.EIO))
)
