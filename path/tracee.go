package path

import "github.com/pathtrace/goproot/extension"

// Tracee is the per-tracee context the translation engine needs: enough
// to resolve a relative path's anchor and to bind-substitute. It carries
// no mutable state of its own beyond what the supervisor assigns once at
// attach time, so it is safe to call Translate/Detranslate concurrently
// for distinct tracees sharing the same Bindings/Hooks.
type Tracee struct {
	// PID is the tracee's host process id. Zero until the tracee has
	// first run, in which case anchor resolution falls back to the
	// tracer's own pid (matching PRoot's "tracee->pid ?: getpid()").
	PID int

	// Root is the absolute, canonical guest-rootfs host path: the real
	// directory on the host that presents as "/" to the tracee.
	Root string

	// Bindings is the shared, read-only binding table.
	Bindings *Table

	// Hooks is the extension hook registry consulted during Translate.
	// May be nil.
	Hooks *extension.Registry

	// Getpid returns the tracer's own pid, used when PID is still zero.
	// Exposed as a field (rather than calling os.Getpid directly) so
	// tests can run without a real process tree.
	Getpid func() int

	// readlink/stat are injected so the canonicalizer and anchor
	// resolution can be exercised without a real /proc or real
	// symlinks; nil means "use the real host syscalls".
	readlinkFn func(string) (string, error)
	statFn     func(string) (isDir bool, err error)
}

func (t *Tracee) pid() int {
	if t.PID != 0 {
		return t.PID
	}
	if t.Getpid != nil {
		return t.Getpid()
	}
	return 0
}
