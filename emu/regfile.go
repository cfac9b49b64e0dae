// Package emu provides the architectural state of the MIPS machine: the
// register file and the region-based memory.
package emu

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

// Conventional register numbers used by the syscall interface.
const (
	RegV0 = 2
	RegA0 = 4
)

// State is one instance of the architectural state. The pipeline keeps two
// of them, current and next, and replaces current with next at the end of
// every cycle.
type State struct {
	// Regs holds the general-purpose registers. Register 0 is not
	// hard-wired to zero.
	Regs [NumRegs]uint32

	// PC is the address of the next instruction to fetch.
	PC uint32

	// HI and LO receive multiply and divide results.
	HI uint32
	LO uint32
}

// ReadReg reads a register value. Out-of-range registers read as 0.
func (s *State) ReadReg(reg uint8) uint32 {
	if int(reg) >= NumRegs {
		return 0
	}
	return s.Regs[reg]
}

// WriteReg writes a register value. Writes to out-of-range registers are
// ignored.
func (s *State) WriteReg(reg uint8, value uint32) {
	if int(reg) >= NumRegs {
		return
	}
	s.Regs[reg] = value
}

// Reset zeroes every field and sets the program counter.
func (s *State) Reset(pc uint32) {
	*s = State{PC: pc}
}
