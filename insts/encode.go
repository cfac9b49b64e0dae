package insts

// EncodeR builds an R-format word: opcode 0 | rs | rt | rd | shamt | funct.
func EncodeR(funct, rs, rt, rd, shamt uint8) uint32 {
	return uint32(rs&0x1F)<<21 |
		uint32(rt&0x1F)<<16 |
		uint32(rd&0x1F)<<11 |
		uint32(shamt&0x1F)<<6 |
		uint32(funct&0x3F)
}

// EncodeI builds an I-format word: opcode | rs | rt | imm16.
func EncodeI(opcode, rs, rt uint8, imm uint16) uint32 {
	return uint32(opcode&0x3F)<<26 |
		uint32(rs&0x1F)<<21 |
		uint32(rt&0x1F)<<16 |
		uint32(imm)
}

// EncodeJ builds a J-format word: opcode | target26.
func EncodeJ(opcode uint8, target uint32) uint32 {
	return uint32(opcode&0x3F)<<26 | target&0x03FFFFFF
}
