package path

import (
	"fmt"
	"os"
	"strconv"
)

// FDCallback is invoked once per open file descriptor discovered by
// ForeachFD, with the fd number and the host path it currently refers to.
// A negative return is propagated as ForeachFD's own result and stops the
// walk; per-entry errors reading an individual fd are otherwise swallowed
// (the walk simply continues to the next entry), mirroring PRoot's
// foreach_fd().
type FDCallback func(fd int, hostPath string) error

// ForeachFD walks /proc/<pid>/fd, calling callback for every descriptor
// that currently points at a filesystem path (sockets, pipes and the like
// are skipped). The directory stream is opened at entry and closed on
// every exit path, including error.
func ForeachFD(pid int, callback FDCallback) error {
	dir := fmt.Sprintf("/proc/%d/fd", pid)

	f, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil
	}

	for _, name := range names {
		fd, err := strconv.Atoi(name)
		if err != nil {
			continue
		}

		target, err := os.Readlink(dir + "/" + name)
		if err != nil {
			continue
		}
		if len(target) == 0 || target[0] != '/' {
			continue
		}

		if err := callback(fd, target); err != nil {
			return err
		}
	}
	return nil
}

// ListOpenFD emits an advisory notice for every open file descriptor of
// pid, to be called right after a tracer attaches to a process: paths
// opened before attach time won't be translated until they are reopened.
func ListOpenFD(pid int, notice func(pid, fd int, hostPath string)) error {
	return ForeachFD(pid, func(fd int, hostPath string) error {
		notice(pid, fd, hostPath)
		return nil
	})
}
