package path

import (
	"fmt"
	"strconv"
	"strings"
)

// procEmulate recognizes referrers of the form /proc/<pid>/{cwd,root,exe}
// or /proc/<pid>/fd/<n> and detranslates the kernel-produced hostPath
// (the link's target) into guest form. It returns ok=false when referrer
// doesn't match one of those shapes, so the caller falls through to
// generic binding-based detranslation.
func (t *Tracee) procEmulate(hostPath, referrer string) (string, bool) {
	rest := strings.TrimPrefix(referrer, "/proc/")
	if rest == referrer {
		return "", false
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return "", false
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return "", false
	}

	switch parts[1] {
	case "cwd", "root", "exe":
		if len(parts) != 2 {
			return "", false
		}
	case "fd":
		if len(parts) != 3 {
			return "", false
		}
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return "", false
		}
	default:
		return "", false
	}

	guestPath, changed, err := t.Detranslate(hostPath, "")
	if err != nil || !changed {
		return "", false
	}
	return guestPath, true
}

// ProcFDLink returns the virtual link path for tracee pid's open file
// descriptor fd, the form the host kernel publishes it under.
func ProcFDLink(pid, fd int) string {
	return fmt.Sprintf("/proc/%d/fd/%d", pid, fd)
}

// ProcCwdLink returns the virtual link path for tracee pid's current
// working directory.
func ProcCwdLink(pid int) string {
	return fmt.Sprintf("/proc/%d/cwd", pid)
}
