//go:build !(linux && amd64)

package supervisor

import "fmt"

// Start is unimplemented outside linux/amd64: ptrace's register layout and
// the PTRACE_O_* constants this package relies on are architecture and
// kernel specific, matching the scope of the teacher's own amd64-only
// syscall table.
func (s *Supervisor) Start() error {
	return fmt.Errorf("supervisor: ptrace tracing is only implemented on linux/amd64")
}
