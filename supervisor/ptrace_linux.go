//go:build linux && amd64

package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/pathtrace/goproot/path"
	"golang.org/x/sys/unix"
)

const atFDCWD = -100

const ptraceOptions = unix.PTRACE_O_TRACESYSGOOD |
	unix.PTRACE_O_TRACECLONE |
	unix.PTRACE_O_TRACEFORK |
	unix.PTRACE_O_TRACEVFORK |
	unix.PTRACE_O_TRACEEXEC |
	unix.PTRACE_O_TRACEEXIT

// Start launches Command under ptrace and begins the event loop in a
// background goroutine. It returns once the child has been started and
// stopped at its initial PTRACE_TRACEME trap.
func (s *Supervisor) Start() error {
	argv0, err := s.resolveCommand()
	if err != nil {
		return err
	}

	cmd := exec.Command(argv0, s.Command[1:]...)
	cmd.Env = s.Env
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("supervisor: start child: %w", err)
	}
	s.cmd = cmd

	pid := cmd.Process.Pid
	var status unix.WaitStatus
	if _, err := unix.Wait4(pid, &status, 0, nil); err != nil {
		return fmt.Errorf("supervisor: initial wait: %w", err)
	}
	if err := unix.PtraceSetOptions(pid, ptraceOptions); err != nil {
		return fmt.Errorf("supervisor: set ptrace options: %w", err)
	}

	s.tracee = &path.Tracee{
		PID:      pid,
		Root:     s.Root,
		Bindings: s.Bindings,
		Hooks:    s.Hooks,
		Getpid:   os.Getpid,
	}

	s.wait.Add(1)
	go s.eventLoop()
	return nil
}

// resolveCommand maps the guest-relative argv[0] onto a host path the
// exec family can actually run, the way translate_path would for an
// execve: absolute guest paths go straight through the binding table and
// rootfs join, relative names are looked up on the host $PATH as a
// simplification since no cwd exists yet for the not-yet-started tracee.
func (s *Supervisor) resolveCommand() (string, error) {
	if len(s.Command) == 0 {
		return "", fmt.Errorf("supervisor: empty command")
	}
	guest := s.Command[0]
	if len(guest) == 0 || guest[0] != '/' {
		if found, err := exec.LookPath(guest); err == nil {
			return found, nil
		}
		return "", fmt.Errorf("supervisor: %q not found on PATH", guest)
	}

	if s.Bindings != nil {
		if host, status := s.Bindings.SubstituteBinding(path.Guest, guest); status != path.NoMatch {
			return host, nil
		}
	}
	return path.Join(s.Root, guest)
}

// eventLoop repeatedly restarts the tracee at every syscall boundary,
// inspecting path-bearing syscalls on entry, until the child exits.
// It mirrors the teacher's own eventLoop/handlerSyscall pair, trimmed to
// the path-bearing subset and wired to the real translation engine.
func (s *Supervisor) eventLoop() {
	defer s.wait.Done()

	pid := s.tracee.PID
	entering := true

	for {
		if err := unix.PtraceSyscall(pid, 0); err != nil {
			s.err = fmt.Errorf("supervisor: ptrace syscall restart: %w", err)
			return
		}

		var status unix.WaitStatus
		wpid, err := unix.Wait4(pid, &status, 0, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			s.err = fmt.Errorf("supervisor: wait4: %w", err)
			return
		}
		if wpid != pid {
			continue
		}

		if status.Exited() || status.Signaled() {
			return
		}
		if !status.Stopped() {
			continue
		}

		if entering {
			s.handleSyscallEntry(pid)
		}
		entering = !entering
	}
}

// handleSyscallEntry reads the current syscall number and, for the
// handful of path-bearing syscalls this module cares about, extracts the
// guest path argument, runs it through the translation engine, and logs
// the before/after pair. It never rewrites tracee memory: demonstrating
// the hook point is the goal, not a production-grade interceptor.
func (s *Supervisor) handleSyscallEntry(pid int) {
	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(pid, &regs); err != nil {
		s.logf("supervisor: get regs: %v\n", err)
		return
	}

	handler, ok := pathSyscalls[syscallNumber(&regs)]
	if !ok {
		return
	}
	handler(s, pid, &regs)
}

type syscallHandler func(s *Supervisor, pid int, regs *unix.PtraceRegs)

// peekString reads a NUL-terminated string out of the tracee's address
// space at addr, up to path.PathMax bytes.
func peekString(pid int, addr uintptr) (string, error) {
	if addr == 0 {
		return "", fmt.Errorf("supervisor: null path pointer")
	}
	buf := make([]byte, path.PathMax)
	n, err := unix.PtracePeekData(pid, addr, buf)
	if err != nil {
		return "", err
	}
	buf = buf[:n]
	if i := indexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
