// Package supervisor starts and tracks a single traced child process,
// exposing enough of its state (pid, cwd, open file descriptors) for the
// path package's Translator to resolve anchors against a real /proc.
//
// It is the minimal slice of "the ptrace supervisor" this module needs:
// it does not reimplement per-syscall argument rewriting for the whole
// syscall table, only enough of it to demonstrate the translation engine
// intercepting a handful of path-bearing syscalls.
package supervisor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/pathtrace/goproot/extension"
	"github.com/pathtrace/goproot/path"
)

// Supervisor owns one traced child and the shared rootfs/binding state
// every path operation on that child is resolved against.
type Supervisor struct {
	// Root is the real host directory that presents as "/" to the
	// traced command.
	Root string

	// Bindings overlays additional host directories/files onto the
	// guest namespace. May be nil.
	Bindings *path.Table

	// Hooks is consulted by every Translate call. May be nil.
	Hooks *extension.Registry

	// Command is the guest-relative argv of the program to trace.
	Command []string

	// Env is the child's environment; nil means inherit the
	// supervisor's own.
	Env []string

	// Dir is the child's initial working directory, guest-relative.
	// Empty means "/".
	Dir string

	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Log receives a line for every intercepted path-bearing syscall.
	// Nil means os.Stderr.
	Log io.Writer

	cmd    *exec.Cmd
	tracee *path.Tracee

	wait sync.WaitGroup
	err  error
}

// Pid returns the traced child's process id, or 0 before Start succeeds.
func (s *Supervisor) Pid() int {
	if s.tracee == nil {
		return 0
	}
	return s.tracee.PID
}

func (s *Supervisor) logf(format string, args ...any) {
	w := s.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}

// Wait blocks until the event loop started by Start has finished, i.e.
// the traced child and all its tracked descendants have exited.
func (s *Supervisor) Wait() error {
	s.wait.Wait()
	return s.err
}
