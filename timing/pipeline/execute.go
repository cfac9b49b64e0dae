package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/insts"
)

// execution carries the operands of one execute-stage evaluation.
type execution struct {
	inst    *insts.Instruction
	in      *Register
	out     *Register
	current *emu.State
	next    *emu.State
	logger  logrus.FieldLogger
}

type executeFunc func(x *execution)

// executeTable maps each operation to its ALU behavior. Branches and jumps
// are present with no effect; control transfer is not modeled.
var executeTable = map[insts.Op]executeFunc{
	insts.OpSLL: func(x *execution) { x.out.ALUOutput = x.in.B << x.inst.Shamt },
	insts.OpSRL: func(x *execution) { x.out.ALUOutput = x.in.B >> x.inst.Shamt },
	insts.OpSRA: func(x *execution) {
		x.out.ALUOutput = uint32(int32(x.in.B) >> x.inst.Shamt)
	},

	insts.OpJR:      noEffect,
	insts.OpJALR:    noEffect,
	insts.OpSYSCALL: noEffect,

	insts.OpMFHI: func(x *execution) { x.out.ALUOutput = x.current.HI },
	insts.OpMTHI: func(x *execution) { x.next.HI = x.in.A },
	insts.OpMFLO: func(x *execution) { x.out.ALUOutput = x.current.LO },
	insts.OpMTLO: func(x *execution) { x.next.LO = x.in.A },

	insts.OpMULT:  multiply,
	insts.OpMULTU: multiply,
	insts.OpDIV:   divide,
	insts.OpDIVU:  divide,

	insts.OpADD:  func(x *execution) { x.out.ALUOutput = x.in.A + x.in.B },
	insts.OpADDU: func(x *execution) { x.out.ALUOutput = x.in.A + x.in.B },
	insts.OpSUB:  func(x *execution) { x.out.ALUOutput = x.in.A - x.in.B },
	insts.OpSUBU: func(x *execution) { x.out.ALUOutput = x.in.A - x.in.B },
	insts.OpAND:  func(x *execution) { x.out.ALUOutput = x.in.A & x.in.B },
	insts.OpOR:   func(x *execution) { x.out.ALUOutput = x.in.A | x.in.B },
	insts.OpXOR:  func(x *execution) { x.out.ALUOutput = x.in.A ^ x.in.B },
	insts.OpNOR:  func(x *execution) { x.out.ALUOutput = ^(x.in.A | x.in.B) },
	insts.OpSLT:  func(x *execution) { x.out.ALUOutput = lessThan(x.in.A, x.in.B) },

	insts.OpBLTZ: noEffect,
	insts.OpBGEZ: noEffect,
	insts.OpJ:    noEffect,
	insts.OpJAL:  noEffect,
	insts.OpBEQ:  noEffect,
	insts.OpBNE:  noEffect,
	insts.OpBLEZ: noEffect,
	insts.OpBGTZ: noEffect,

	insts.OpADDI: func(x *execution) {
		x.out.ALUOutput = insts.SignExtend16(x.in.Imm) + x.in.A
	},
	insts.OpADDIU: func(x *execution) { x.out.ALUOutput = x.in.A + x.in.Imm },
	insts.OpSLTI:  func(x *execution) { x.out.ALUOutput = lessThan(x.in.A, x.in.Imm) },
	insts.OpANDI:  func(x *execution) { x.out.ALUOutput = x.in.A & x.in.Imm },
	insts.OpORI:   func(x *execution) { x.out.ALUOutput = x.in.A | x.in.Imm },
	insts.OpXORI:  func(x *execution) { x.out.ALUOutput = x.in.A ^ x.in.Imm },
	insts.OpLUI:   func(x *execution) { x.out.ALUOutput = x.in.Imm << 16 },

	insts.OpLB: effectiveAddress,
	insts.OpLH: effectiveAddress,
	insts.OpLW: effectiveAddress,
	insts.OpSB: effectiveAddress,
	insts.OpSH: effectiveAddress,
	insts.OpSW: effectiveAddress,
}

func noEffect(*execution) {}

// lessThan compares as unsigned for both SLT and SLTI.
func lessThan(a, b uint32) uint32 {
	if a < b {
		return 1
	}
	return 0
}

func multiply(x *execution) {
	product := uint64(x.in.A) * uint64(x.in.B)
	x.next.LO = uint32(product & 0xFFFFFFFF)
	x.next.HI = uint32(product >> 32)
}

func divide(x *execution) {
	if x.in.B == 0 {
		x.logger.WithFields(instFields(x.in)).Warn("divide by zero, HI/LO unchanged")
		return
	}
	x.next.LO = x.in.A / x.in.B
	x.next.HI = x.in.A % x.in.B
}

func effectiveAddress(x *execution) {
	x.out.ALUOutput = x.in.A + x.in.Imm
}

// ExecuteStage handles ALU operations and address calculation.
type ExecuteStage struct {
	decoder *insts.Decoder
	logger  logrus.FieldLogger
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage(logger logrus.FieldLogger) *ExecuteStage {
	return &ExecuteStage{
		decoder: insts.NewDecoder(),
		logger:  logger,
	}
}

// Execute evaluates the instruction latched in ID/EX into EX/MEM. HI and LO
// side effects go to next; MFHI and MFLO read current.
func (s *ExecuteStage) Execute(current, next *emu.State, idex, exmem *Register) {
	*exmem = *idex
	exmem.ALUOutput = 0
	exmem.LMD = 0

	inst := s.decoder.Decode(idex.IR)
	fn, ok := executeTable[inst.Op]
	if !ok {
		if inst.Format == insts.FormatR {
			s.logger.WithFields(instFields(idex)).
				WithField("funct", hex32(uint32(inst.Funct))).
				Warn("unhandled function")
		}
		return
	}

	fn(&execution{
		inst:    inst,
		in:      idex,
		out:     exmem,
		current: current,
		next:    next,
		logger:  s.logger,
	})
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}
