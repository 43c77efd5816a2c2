package path

import (
	"os"
	"syscall"
)

// maxSymlinkDepth bounds the number of symlink dereferences a single
// canonicalize() call will follow before giving up with ErrTooManyLinks,
// matching PRoot's own suggested limit.
const maxSymlinkDepth = 40

// Canonicalize resolves remainder, taken relative to the already-absolute,
// already-canonical guest path held in base, into an absolute,
// symlink-free guest path. deref determines whether the final component,
// if itself a symbolic link, is followed. Bindings are consulted during
// traversal (not only at the end) because a symlink target can itself
// cross a binding boundary, and the host-side lookup used to test for a
// symlink must agree with how the guest would see the same traversal.
func (t *Tracee) Canonicalize(base, remainder string, deref bool) (string, error) {
	acc := base
	if acc == "" {
		acc = "/"
	}

	cursor := remainder
	links := 0

	for {
		component, finality, err := nextComponent(&cursor)
		if err != nil {
			return "", err
		}
		switch component {
		case "", ".":
			// discard
		case "..":
			acc = popComponent(acc)
		default:
			joined, err := Join(acc, component)
			if err != nil {
				return "", err
			}
			acc = joined
		}

		isFinal := finality != NotFinal
		shouldDeref := !isFinal || deref

		if component != "." && component != ".." && component != "" {
			hostPath, err := t.substituteGuestToHost(acc)
			if err != nil {
				return "", err
			}

			if shouldDeref {
				target, isLink, err := t.readLinkIfSymlink(hostPath, isFinal)
				if err != nil {
					return "", err
				}
				if isLink {
					links++
					if links > maxSymlinkDepth {
						return "", ErrTooManyLinks
					}
					if len(target) > 0 && target[0] == '/' {
						acc = "/"
					} else {
						acc = popComponent(acc)
					}
					joined, err := Join(target, cursor)
					if err != nil {
						return "", err
					}
					cursor = joined
					continue
				}
			}

			if !isFinal {
				isDir, err := t.isDirectory(hostPath)
				if err != nil {
					return "", err
				}
				if !isDir {
					return "", ErrNotADirectory
				}
			}
		}

		if finality == FinalSlash {
			hostPath, err := t.substituteGuestToHost(acc)
			if err != nil {
				return "", err
			}
			isDir, err := t.isDirectory(hostPath)
			if err != nil {
				return "", err
			}
			if !isDir {
				return "", ErrNotADirectory
			}
		}

		if isFinal {
			break
		}
	}

	return acc, nil
}

// substituteGuestToHost converts an accumulator path (always guest-form)
// into the host path the kernel should be asked about, for the purposes
// of probing whether it is a symlink/directory mid-traversal.
func (t *Tracee) substituteGuestToHost(guestPath string) (string, error) {
	if t.Bindings != nil {
		if hostPath, status := t.Bindings.SubstituteBinding(Guest, guestPath); status != NoMatch {
			return hostPath, nil
		}
	}
	return Join(t.Root, guestPath)
}

// readLinkIfSymlink reports whether hostPath is a symbolic link and, if
// so, its target. A missing non-final component surfaces as ErrNoEntry,
// per the error taxonomy's explicit scoping of NO_ENTRY to non-final
// components. A missing *final* component is not an error here: with
// deref_final set, probing the last component for a symlink is just
// that, a probe, and ENOENT on it only means "nothing to dereference" --
// the everyday case of openat(..., O_CREAT), mkdir, or a rename
// destination that doesn't exist yet. Any other unreadable path is
// simply "not a symlink" (the caller will find out what's wrong, if
// anything, from a later stat/open the supervisor performs on the real
// host path).
func (t *Tracee) readLinkIfSymlink(hostPath string, isFinal bool) (target string, isLink bool, err error) {
	if t.readlinkFn != nil {
		target, rerr := t.readlinkFn(hostPath)
		if rerr == nil {
			return target, true, nil
		}
		if os.IsNotExist(rerr) {
			if isFinal {
				return "", false, nil
			}
			return "", false, ErrNoEntry
		}
		return "", false, nil
	}

	target, err = os.Readlink(hostPath)
	if err == nil {
		return target, true, nil
	}
	if pathErr, ok := err.(*os.PathError); ok {
		switch pathErr.Err {
		case syscall.EINVAL:
			// Exists, not a symlink.
			return "", false, nil
		case syscall.ENOENT:
			if isFinal {
				return "", false, nil
			}
			return "", false, ErrNoEntry
		}
	}
	return "", false, nil
}

// isDirectory reports whether hostPath refers to a directory.
func (t *Tracee) isDirectory(hostPath string) (bool, error) {
	if t.statFn != nil {
		isDir, err := t.statFn(hostPath)
		if err != nil {
			if os.IsNotExist(err) {
				return false, ErrNoEntry
			}
			return false, ErrOperationFailed
		}
		return isDir, nil
	}

	info, err := os.Stat(hostPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, ErrNoEntry
		}
		return false, ErrOperationFailed
	}
	return info.IsDir(), nil
}
