// Package pipeline provides the 5-stage pipeline implementation for timing simulation.
package pipeline

import (
	"fmt"

	"github.com/sarchlab/mumips/insts"
)

// Register is a pipeline latch between two stages. All four latches (IF/ID,
// ID/EX, EX/MEM and MEM/WB) share the same layout, and every stage fully
// reassigns its downstream latch each cycle.
type Register struct {
	// IR is the raw instruction word.
	IR uint32

	// PC is the address following the instruction (fetch PC + 4).
	PC uint32

	// A and B are the values read from rs and rt.
	A uint32
	B uint32

	// Imm is the sign-extended 16-bit immediate.
	Imm uint32

	// ALUOutput is the result or effective address produced by execute.
	ALUOutput uint32

	// LMD is the loaded memory data.
	LMD uint32
}

// Clear resets the register to empty state.
func (r *Register) Clear() {
	*r = Register{}
}

// Opcode returns bits [31:26] of the latched instruction.
func (r *Register) Opcode() uint8 {
	return insts.OpcodeOf(r.IR)
}

// String formats the register the way the shell's pipeline dump prints it.
func (r *Register) String() string {
	return fmt.Sprintf(
		"IR: 0x%08x PC: 0x%08x A: 0x%08x B: 0x%08x imm: 0x%08x ALUOutput: 0x%08x LMD: 0x%08x",
		r.IR, r.PC, r.A, r.B, r.Imm, r.ALUOutput, r.LMD)
}
