// Package insts provides MIPS instruction definitions and decoding.
//
// This package implements decoding of 32-bit MIPS machine words into
// structured instruction representations. It supports the reduced
// instruction set of the MU-MIPS simulator:
//   - R-format (opcode 0): shifts, HI/LO moves, multiply/divide, ALU ops,
//     JR/JALR and SYSCALL, selected by the function code
//   - I-format: immediate ALU ops, LUI, loads, stores and branches
//   - J-format: J and JAL
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00221820) // add $3, $1, $2
//	fmt.Printf("Op: %v, Rd: %d, Rs: %d, Rt: %d\n", inst.Op, inst.Rd, inst.Rs, inst.Rt)
package insts
