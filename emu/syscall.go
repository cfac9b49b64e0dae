package emu

import (
	"fmt"
	"io"
)

// SPIM syscall codes, selected by $v0.
const (
	SyscallPrintInt    uint32 = 1
	SyscallPrintString uint32 = 4
	SyscallExit        uint32 = 10
	SyscallPrintChar   uint32 = 11
)

// maxStringLen bounds print_string when no NUL terminator is found.
const maxStringLen = 4096

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall requested the simulation to stop.
	Exited bool

	// Unknown is true if the code in $v0 was not recognized.
	Unknown bool
}

// SyscallHandler handles a SYSCALL instruction that reaches writeback.
// Syscalls never modify architectural state.
type SyscallHandler interface {
	// Handle executes the syscall indicated by the given state.
	//   - Syscall code in $v0 (R2)
	//   - Argument in $a0 (R4)
	Handle(state *State) SyscallResult
}

// DefaultSyscallHandler provides the SPIM console subset.
type DefaultSyscallHandler struct {
	memory *Memory
	stdout io.Writer
}

// NewDefaultSyscallHandler creates a default syscall handler. A nil stdout
// discards console output.
func NewDefaultSyscallHandler(memory *Memory, stdout io.Writer) *DefaultSyscallHandler {
	if stdout == nil {
		stdout = io.Discard
	}
	return &DefaultSyscallHandler{
		memory: memory,
		stdout: stdout,
	}
}

// Handle executes the syscall indicated by the state.
func (h *DefaultSyscallHandler) Handle(state *State) SyscallResult {
	arg := state.ReadReg(RegA0)

	switch state.ReadReg(RegV0) {
	case SyscallPrintInt:
		fmt.Fprintf(h.stdout, "%d", int32(arg))
	case SyscallPrintString:
		h.printString(arg)
	case SyscallPrintChar:
		fmt.Fprintf(h.stdout, "%c", byte(arg))
	case SyscallExit:
		return SyscallResult{Exited: true}
	default:
		return SyscallResult{Unknown: true}
	}

	return SyscallResult{}
}

func (h *DefaultSyscallHandler) printString(addr uint32) {
	buf := make([]byte, 0, 64)
	for i := uint32(0); i < maxStringLen; i++ {
		b := h.memory.Read8(addr + i)
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	_, _ = h.stdout.Write(buf)
}
