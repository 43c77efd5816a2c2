package path

import (
	"fmt"
	"os"

	"github.com/pathtrace/goproot/extension"
)

const atFDCWD = -100

// Translate converts a guest path into the host path the kernel should be
// asked about. fakePath is the path as the tracee wrote it; dirFD is
// AT_FDCWD or a file descriptor the tracee holds open on a directory, used
// to resolve fakePath when it is relative. derefFinal controls whether
// the final component, if a symlink, is itself followed.
//
// It mirrors PRoot's translate_path(): resolve the anchor, run the
// extension hook, canonicalize, then substitute bindings one last time to
// land on a host path.
func (t *Tracee) Translate(dirFD int, fakePath string, derefFinal bool) (string, error) {
	anchor, err := t.anchor(dirFD, fakePath)
	if err != nil {
		return "", err
	}

	if t.Hooks != nil {
		newResult, status, err := t.Hooks.Notify(extension.GuestPath, anchor, fakePath)
		if err != nil {
			return "", err
		}
		if status < 0 {
			return "", fmt.Errorf("extension hook rejected guest path: %w", ErrOperationFailed)
		}
		if status > 0 {
			return newResult, nil
		}
	}

	canonical, err := t.Canonicalize(anchor, fakePath, derefFinal)
	if err != nil {
		return "", err
	}

	hostPath, status := t.Bindings.SubstituteBinding(Guest, canonical)
	if status == NoMatch {
		return Join(t.Root, canonical)
	}
	return hostPath, nil
}

// anchor computes the absolute guest path fakePath should be resolved
// relative to: "/" for an absolute fakePath, the detranslated
// /proc/<pid>/cwd for AT_FDCWD, or the detranslated /proc/<pid>/fd/<n>
// otherwise (after checking, via stat, that it refers to a directory).
func (t *Tracee) anchor(dirFD int, fakePath string) (string, error) {
	if len(fakePath) > 0 && fakePath[0] == '/' {
		return "/", nil
	}

	pid := t.pid()

	var link string
	if dirFD == atFDCWD {
		link = fmt.Sprintf("/proc/%d/cwd", pid)
	} else {
		link = fmt.Sprintf("/proc/%d/fd/%d", pid, dirFD)
	}

	hostAnchor, err := t.readProcLink(link)
	if err != nil {
		return "", ErrOperationFailed
	}

	if dirFD != atFDCWD {
		// The open question in the design notes: a failed stat must be
		// treated as NotADirectory rather than inspecting uninitialized
		// state, unlike the C implementation this is ported from.
		isDir, err := t.isDirectory(hostAnchor)
		if err != nil {
			return "", ErrNotADirectory
		}
		if !isDir {
			return "", ErrNotADirectory
		}
	}

	guestAnchor, _, err := t.Detranslate(hostAnchor, "")
	if err != nil {
		return "", err
	}
	return guestAnchor, nil
}

// readProcLink reads the target of a /proc virtual link, using the
// injected readlinkFn when present so tests don't need a real /proc.
func (t *Tracee) readProcLink(link string) (string, error) {
	if t.readlinkFn != nil {
		return t.readlinkFn(link)
	}
	return os.Readlink(link)
}

// Detranslate rewrites a host path back into guest form. referrer is the
// host path of the symbolic link that produced hostPath, or "" for a
// top-level host path that must itself lie within the guest rootfs
// namespace. It returns the (possibly unchanged) guest path and whether
// any rewrite was actually performed.
//
// It mirrors PRoot's detranslate_path().
func (t *Tracee) Detranslate(hostPath, referrer string) (guestPath string, changed bool, err error) {
	if len(hostPath) == 0 || hostPath[0] != '/' {
		// Relative symlink targets are never rewritten.
		return hostPath, false, nil
	}

	sanityCheck := referrer == ""
	followBinding := referrer == ""

	if referrer != "" {
		if Compare("/proc", referrer) == Path1IsPrefix {
			if rewritten, ok := t.procEmulate(hostPath, referrer); ok {
				return rewritten, true, nil
			}
			followBinding = true
		} else if !t.BelongsToGuestfs(referrer) {
			referree, hasReferree := t.Bindings.GetPathBinding(Host, hostPath)
			referrerBinding, hasReferrerBinding := t.Bindings.GetPathBinding(Host, referrer)
			if hasReferree && hasReferrerBinding {
				followBinding = Compare(referree, referrerBinding) == Equal
			}
		}
	}

	if followBinding && t.Bindings != nil {
		newPath, status := t.Bindings.SubstituteBinding(Host, hostPath)
		switch status {
		case Unchanged:
			return hostPath, false, nil
		case Substituted:
			return newPath, true, nil
		}
	}

	switch Compare(t.Root, hostPath) {
	case Path1IsPrefix:
		// Special case: when the guest rootfs is "/" itself, there is no
		// leading part to strip.
		prefixLen := len(t.Root)
		if prefixLen == 1 {
			prefixLen = 0
		}
		rest := hostPath[prefixLen:]
		if rest == "" {
			rest = "/"
		}
		return rest, true, nil
	case Equal:
		return "/", true, nil
	default:
		if sanityCheck {
			return "", false, ErrPermissionDenied
		}
		return hostPath, false, nil
	}
}

// BelongsToGuestfs reports whether hostPath is under the guest rootfs
// (i.e. not the product of a binding).
func (t *Tracee) BelongsToGuestfs(hostPath string) bool {
	cmp := Compare(t.Root, hostPath)
	return cmp == Equal || cmp == Path1IsPrefix
}
