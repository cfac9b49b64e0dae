package insts

import "fmt"

// String renders the instruction in MIPS assembler syntax.
func (i *Instruction) String() string {
	if i.Word == 0 {
		return "nop"
	}

	switch i.Op {
	case OpSLL, OpSRL, OpSRA:
		return fmt.Sprintf("%s $%d, $%d, %d", i.Op, i.Rd, i.Rt, i.Shamt)
	case OpJR, OpMTHI, OpMTLO:
		return fmt.Sprintf("%s $%d", i.Op, i.Rs)
	case OpJALR:
		return fmt.Sprintf("%s $%d, $%d", i.Op, i.Rd, i.Rs)
	case OpSYSCALL:
		return i.Op.String()
	case OpMFHI, OpMFLO:
		return fmt.Sprintf("%s $%d", i.Op, i.Rd)
	case OpMULT, OpMULTU, OpDIV, OpDIVU:
		return fmt.Sprintf("%s $%d, $%d", i.Op, i.Rs, i.Rt)
	case OpADD, OpADDU, OpSUB, OpSUBU, OpAND, OpOR, OpXOR, OpNOR, OpSLT:
		return fmt.Sprintf("%s $%d, $%d, $%d", i.Op, i.Rd, i.Rs, i.Rt)
	case OpADDI, OpADDIU, OpSLTI:
		return fmt.Sprintf("%s $%d, $%d, %d", i.Op, i.Rt, i.Rs, int32(i.Imm))
	case OpANDI, OpORI, OpXORI:
		return fmt.Sprintf("%s $%d, $%d, 0x%04x", i.Op, i.Rt, i.Rs, i.Imm&0xFFFF)
	case OpLUI:
		return fmt.Sprintf("%s $%d, 0x%04x", i.Op, i.Rt, i.Imm&0xFFFF)
	case OpLB, OpLH, OpLW, OpSB, OpSH, OpSW:
		return fmt.Sprintf("%s $%d, %d($%d)", i.Op, i.Rt, int32(i.Imm), i.Rs)
	case OpBEQ, OpBNE:
		return fmt.Sprintf("%s $%d, $%d, %d", i.Op, i.Rs, i.Rt, int32(i.Imm))
	case OpBLTZ, OpBGEZ, OpBLEZ, OpBGTZ:
		return fmt.Sprintf("%s $%d, %d", i.Op, i.Rs, int32(i.Imm))
	case OpJ, OpJAL:
		return fmt.Sprintf("%s 0x%08x", i.Op, i.Target<<2)
	}

	return fmt.Sprintf(".word 0x%08x", i.Word)
}

// Disassemble decodes word and renders it in assembler syntax.
func (d *Decoder) Disassemble(word uint32) string {
	return d.Decode(word).String()
}
