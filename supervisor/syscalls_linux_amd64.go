//go:build linux && amd64

package supervisor

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func syscallNumber(regs *unix.PtraceRegs) int {
	return int(regs.Orig_rax)
}

// pathSyscalls is the path-bearing subset of the teacher's own
// ProcessSyscalls table: instead of logging raw register dumps, each
// handler resolves the guest path it finds through the real translation
// engine and logs the before/after pair.
var pathSyscalls = map[int]syscallHandler{
	syscall.SYS_OPENAT:     handleOpenat,
	syscall.SYS_EXECVE:     handleExecve,
	syscall.SYS_NEWFSTATAT: handleNewfstatat,
	syscall.SYS_READLINK:   handleReadlink,
	syscall.SYS_READLINKAT: handleReadlinkat,
}

func handleOpenat(s *Supervisor, pid int, regs *unix.PtraceRegs) {
	dirfd := int(int32(regs.Rdi))
	guestPath, err := peekString(pid, uintptr(regs.Rsi))
	if err != nil {
		s.logf("openat: read path: %v\n", err)
		return
	}
	host, err := s.tracee.Translate(dirfd, guestPath, true)
	if err != nil {
		s.logf("openat: translate %q: %v\n", guestPath, err)
		return
	}
	s.logf("openat: %q -> %q\n", guestPath, host)
}

func handleExecve(s *Supervisor, pid int, regs *unix.PtraceRegs) {
	guestPath, err := peekString(pid, uintptr(regs.Rdi))
	if err != nil {
		s.logf("execve: read path: %v\n", err)
		return
	}
	host, err := s.tracee.Translate(atFDCWD, guestPath, true)
	if err != nil {
		s.logf("execve: translate %q: %v\n", guestPath, err)
		return
	}
	s.logf("execve: %q -> %q\n", guestPath, host)
}

func handleNewfstatat(s *Supervisor, pid int, regs *unix.PtraceRegs) {
	dirfd := int(int32(regs.Rdi))
	guestPath, err := peekString(pid, uintptr(regs.Rsi))
	if err != nil {
		s.logf("newfstatat: read path: %v\n", err)
		return
	}
	host, err := s.tracee.Translate(dirfd, guestPath, true)
	if err != nil {
		s.logf("newfstatat: translate %q: %v\n", guestPath, err)
		return
	}
	s.logf("newfstatat: %q -> %q\n", guestPath, host)
}

func handleReadlink(s *Supervisor, pid int, regs *unix.PtraceRegs) {
	guestPath, err := peekString(pid, uintptr(regs.Rdi))
	if err != nil {
		s.logf("readlink: read path: %v\n", err)
		return
	}
	host, err := s.tracee.Translate(atFDCWD, guestPath, false)
	if err != nil {
		s.logf("readlink: translate %q: %v\n", guestPath, err)
		return
	}
	s.logf("readlink: %q -> %q\n", guestPath, host)
}

func handleReadlinkat(s *Supervisor, pid int, regs *unix.PtraceRegs) {
	dirfd := int(int32(regs.Rdi))
	guestPath, err := peekString(pid, uintptr(regs.Rsi))
	if err != nil {
		s.logf("readlinkat: read path: %v\n", err)
		return
	}
	host, err := s.tracee.Translate(dirfd, guestPath, false)
	if err != nil {
		s.logf("readlinkat: translate %q: %v\n", guestPath, err)
		return
	}
	s.logf("readlinkat: %q -> %q\n", guestPath, host)
}
