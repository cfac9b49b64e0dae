// Package insts provides MIPS instruction definitions and decoding.
package insts

// Op represents a MIPS operation.
type Op uint8

// MIPS operations.
const (
	OpUnknown Op = iota

	// R-format, selected by function code.
	OpSLL
	OpSRL
	OpSRA
	OpJR
	OpJALR
	OpSYSCALL
	OpMFHI
	OpMTHI
	OpMFLO
	OpMTLO
	OpMULT
	OpMULTU
	OpDIV
	OpDIVU
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpXOR
	OpNOR
	OpSLT

	// Branches and jumps.
	OpBLTZ
	OpBGEZ
	OpJ
	OpJAL
	OpBEQ
	OpBNE
	OpBLEZ
	OpBGTZ

	// Immediate ALU.
	OpADDI
	OpADDIU
	OpSLTI
	OpANDI
	OpORI
	OpXORI
	OpLUI

	// Loads and stores.
	OpLB
	OpLH
	OpLW
	OpSB
	OpSH
	OpSW
)

var opNames = map[Op]string{
	OpUnknown: "unknown",
	OpSLL:     "sll",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpJR:      "jr",
	OpJALR:    "jalr",
	OpSYSCALL: "syscall",
	OpMFHI:    "mfhi",
	OpMTHI:    "mthi",
	OpMFLO:    "mflo",
	OpMTLO:    "mtlo",
	OpMULT:    "mult",
	OpMULTU:   "multu",
	OpDIV:     "div",
	OpDIVU:    "divu",
	OpADD:     "add",
	OpADDU:    "addu",
	OpSUB:     "sub",
	OpSUBU:    "subu",
	OpAND:     "and",
	OpOR:      "or",
	OpXOR:     "xor",
	OpNOR:     "nor",
	OpSLT:     "slt",
	OpBLTZ:    "bltz",
	OpBGEZ:    "bgez",
	OpJ:       "j",
	OpJAL:     "jal",
	OpBEQ:     "beq",
	OpBNE:     "bne",
	OpBLEZ:    "blez",
	OpBGTZ:    "bgtz",
	OpADDI:    "addi",
	OpADDIU:   "addiu",
	OpSLTI:    "slti",
	OpANDI:    "andi",
	OpORI:     "ori",
	OpXORI:    "xori",
	OpLUI:     "lui",
	OpLB:      "lb",
	OpLH:      "lh",
	OpLW:      "lw",
	OpSB:      "sb",
	OpSH:      "sh",
	OpSW:      "sw",
}

// String returns the assembler mnemonic of the operation.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // opcode 0, function code selects the operation
	FormatI              // 16-bit immediate
	FormatJ              // 26-bit jump target
)

// Dest identifies which register field, if any, receives the result of an
// instruction at writeback.
type Dest uint8

// Destination kinds.
const (
	DestNone Dest = iota
	DestRd
	DestRt
)

// Primary opcodes.
const (
	OpcodeSpecial uint8 = 0x00
	OpcodeRegImm  uint8 = 0x01
	OpcodeJ       uint8 = 0x02
	OpcodeJAL     uint8 = 0x03
	OpcodeBEQ     uint8 = 0x04
	OpcodeBNE     uint8 = 0x05
	OpcodeBLEZ    uint8 = 0x06
	OpcodeBGTZ    uint8 = 0x07
	OpcodeADDI    uint8 = 0x08
	OpcodeADDIU   uint8 = 0x09
	OpcodeSLTI    uint8 = 0x0A
	OpcodeANDI    uint8 = 0x0C
	OpcodeORI     uint8 = 0x0D
	OpcodeXORI    uint8 = 0x0E
	OpcodeLUI     uint8 = 0x0F
	OpcodeLB      uint8 = 0x20
	OpcodeLH      uint8 = 0x21
	OpcodeLW      uint8 = 0x23
	OpcodeSB      uint8 = 0x28
	OpcodeSH      uint8 = 0x29
	OpcodeSW      uint8 = 0x2B
)

// Function codes for opcode 0.
const (
	FunctSLL     uint8 = 0x00
	FunctSRL     uint8 = 0x02
	FunctSRA     uint8 = 0x03
	FunctJR      uint8 = 0x08
	FunctJALR    uint8 = 0x09
	FunctSYSCALL uint8 = 0x0C
	FunctMFHI    uint8 = 0x10
	FunctMTHI    uint8 = 0x11
	FunctMFLO    uint8 = 0x12
	FunctMTLO    uint8 = 0x13
	FunctMULT    uint8 = 0x18
	FunctMULTU   uint8 = 0x19
	FunctDIV     uint8 = 0x1A
	FunctDIVU    uint8 = 0x1B
	FunctADD     uint8 = 0x20
	FunctADDU    uint8 = 0x21
	FunctSUB     uint8 = 0x22
	FunctSUBU    uint8 = 0x23
	FunctAND     uint8 = 0x24
	FunctOR      uint8 = 0x25
	FunctXOR     uint8 = 0x26
	FunctNOR     uint8 = 0x27
	FunctSLT     uint8 = 0x2A
)

var specialOps = map[uint8]Op{
	FunctSLL:     OpSLL,
	FunctSRL:     OpSRL,
	FunctSRA:     OpSRA,
	FunctJR:      OpJR,
	FunctJALR:    OpJALR,
	FunctSYSCALL: OpSYSCALL,
	FunctMFHI:    OpMFHI,
	FunctMTHI:    OpMTHI,
	FunctMFLO:    OpMFLO,
	FunctMTLO:    OpMTLO,
	FunctMULT:    OpMULT,
	FunctMULTU:   OpMULTU,
	FunctDIV:     OpDIV,
	FunctDIVU:    OpDIVU,
	FunctADD:     OpADD,
	FunctADDU:    OpADDU,
	FunctSUB:     OpSUB,
	FunctSUBU:    OpSUBU,
	FunctAND:     OpAND,
	FunctOR:      OpOR,
	FunctXOR:     OpXOR,
	FunctNOR:     OpNOR,
	FunctSLT:     OpSLT,
}

var primaryOps = map[uint8]Op{
	OpcodeJ:     OpJ,
	OpcodeJAL:   OpJAL,
	OpcodeBEQ:   OpBEQ,
	OpcodeBNE:   OpBNE,
	OpcodeBLEZ:  OpBLEZ,
	OpcodeBGTZ:  OpBGTZ,
	OpcodeADDI:  OpADDI,
	OpcodeADDIU: OpADDIU,
	OpcodeSLTI:  OpSLTI,
	OpcodeANDI:  OpANDI,
	OpcodeORI:   OpORI,
	OpcodeXORI:  OpXORI,
	OpcodeLUI:   OpLUI,
	OpcodeLB:    OpLB,
	OpcodeLH:    OpLH,
	OpcodeLW:    OpLW,
	OpcodeSB:    OpSB,
	OpcodeSH:    OpSH,
	OpcodeSW:    OpSW,
}

// Instruction represents a decoded MIPS instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format
	Word   uint32 // Raw instruction word

	Opcode uint8 // bits [31:26]
	Rs     uint8 // bits [25:21]
	Rt     uint8 // bits [20:16]
	Rd     uint8 // bits [15:11]
	Shamt  uint8 // bits [10:6]
	Funct  uint8 // bits [5:0]

	// Imm is the 16-bit immediate, sign-extended to 32 bits.
	Imm uint32

	// Target is the 26-bit jump target field.
	Target uint32
}

// Known reports whether the instruction has a defined operation.
func (i *Instruction) Known() bool {
	return i.Op != OpUnknown
}

// IsLoad returns true for LB, LH and LW.
func (i *Instruction) IsLoad() bool {
	return i.Op == OpLB || i.Op == OpLH || i.Op == OpLW
}

// IsStore returns true for SB, SH and SW.
func (i *Instruction) IsStore() bool {
	return i.Op == OpSB || i.Op == OpSH || i.Op == OpSW
}

// IsBranch returns true for branch and jump instructions, including JR and
// JALR.
func (i *Instruction) IsBranch() bool {
	switch i.Op {
	case OpBLTZ, OpBGEZ, OpJ, OpJAL, OpBEQ, OpBNE, OpBLEZ, OpBGTZ, OpJR, OpJALR:
		return true
	}
	return false
}

// Dest returns the register field written at writeback. Operations that
// only touch HI/LO, memory, or control flow have no GPR destination.
func (i *Instruction) Dest() Dest {
	switch i.Op {
	case OpSLL, OpSRL, OpSRA, OpMFHI, OpMFLO,
		OpADD, OpADDU, OpSUB, OpSUBU, OpAND, OpOR, OpXOR, OpNOR, OpSLT:
		return DestRd
	case OpADDI, OpADDIU, OpSLTI, OpANDI, OpORI, OpXORI, OpLUI,
		OpLB, OpLH, OpLW:
		return DestRt
	}
	return DestNone
}

// OpcodeOf extracts bits [31:26].
func OpcodeOf(word uint32) uint8 { return uint8((word >> 26) & 0x3F) }

// RsOf extracts bits [25:21].
func RsOf(word uint32) uint8 { return uint8((word >> 21) & 0x1F) }

// RtOf extracts bits [20:16].
func RtOf(word uint32) uint8 { return uint8((word >> 16) & 0x1F) }

// RdOf extracts bits [15:11].
func RdOf(word uint32) uint8 { return uint8((word >> 11) & 0x1F) }

// ShamtOf extracts bits [10:6].
func ShamtOf(word uint32) uint8 { return uint8((word >> 6) & 0x1F) }

// FunctOf extracts bits [5:0].
func FunctOf(word uint32) uint8 { return uint8(word & 0x3F) }

// Imm16Of extracts bits [15:0] without extension.
func Imm16Of(word uint32) uint32 { return word & 0xFFFF }

// SignExtend16 replicates bit 15 of v into bits [31:16]. Bits above 15 that
// are already set are preserved, so extending an extended value is a no-op.
func SignExtend16(v uint32) uint32 {
	if (v>>15)&0x1 == 1 {
		return v | 0xFFFF0000
	}
	return v & 0x0000FFFF
}

// Decoder decodes MIPS machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new MIPS instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit MIPS instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Op:     OpUnknown,
		Format: FormatUnknown,
		Word:   word,
		Opcode: OpcodeOf(word),
		Rs:     RsOf(word),
		Rt:     RtOf(word),
		Rd:     RdOf(word),
		Shamt:  ShamtOf(word),
		Funct:  FunctOf(word),
		Imm:    SignExtend16(Imm16Of(word)),
		Target: word & 0x03FFFFFF,
	}

	switch inst.Opcode {
	case OpcodeSpecial:
		inst.Format = FormatR
		if op, ok := specialOps[inst.Funct]; ok {
			inst.Op = op
		}
	case OpcodeRegImm:
		// BLTZ and BGEZ share the opcode; bit 0 of rt selects.
		inst.Format = FormatI
		if inst.Rt&0x1 == 0 {
			inst.Op = OpBLTZ
		} else {
			inst.Op = OpBGEZ
		}
	case OpcodeJ, OpcodeJAL:
		inst.Format = FormatJ
		inst.Op = primaryOps[inst.Opcode]
	default:
		if op, ok := primaryOps[inst.Opcode]; ok {
			inst.Format = FormatI
			inst.Op = op
		}
	}

	return inst
}
