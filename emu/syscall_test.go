package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mumips/emu"
)

var _ = Describe("Syscall Handler", func() {
	var (
		state   *emu.State
		memory  *emu.Memory
		stdout  *bytes.Buffer
		handler *emu.DefaultSyscallHandler
	)

	BeforeEach(func() {
		state = &emu.State{}
		memory = emu.NewDefaultMemory()
		stdout = new(bytes.Buffer)
		handler = emu.NewDefaultSyscallHandler(memory, stdout)
	})

	It("should request exit for code 10", func() {
		state.WriteReg(emu.RegV0, emu.SyscallExit)

		result := handler.Handle(state)

		Expect(result.Exited).To(BeTrue())
		Expect(result.Unknown).To(BeFalse())
		Expect(stdout.Len()).To(BeZero())
	})

	It("should print a signed integer for code 1", func() {
		state.WriteReg(emu.RegV0, emu.SyscallPrintInt)
		state.WriteReg(emu.RegA0, 0xFFFFFFF9) // -7

		result := handler.Handle(state)

		Expect(result.Exited).To(BeFalse())
		Expect(stdout.String()).To(Equal("-7"))
	})

	It("should print a character for code 11", func() {
		state.WriteReg(emu.RegV0, emu.SyscallPrintChar)
		state.WriteReg(emu.RegA0, 'A')

		handler.Handle(state)

		Expect(stdout.String()).To(Equal("A"))
	})

	It("should print a NUL-terminated string for code 4", func() {
		memory.Write32(emu.DataBegin, 0x6C6C6548)   // "Hell"
		memory.Write32(emu.DataBegin+4, 0x0000216F) // "o!\0"
		state.WriteReg(emu.RegV0, emu.SyscallPrintString)
		state.WriteReg(emu.RegA0, emu.DataBegin)

		handler.Handle(state)

		Expect(stdout.String()).To(Equal("Hello!"))
	})

	It("should flag unknown codes without touching state", func() {
		state.WriteReg(emu.RegV0, 999)
		before := *state

		result := handler.Handle(state)

		Expect(result.Unknown).To(BeTrue())
		Expect(result.Exited).To(BeFalse())
		Expect(*state).To(Equal(before))
	})

	It("should discard output when stdout is nil", func() {
		quiet := emu.NewDefaultSyscallHandler(memory, nil)
		state.WriteReg(emu.RegV0, emu.SyscallPrintInt)

		Expect(func() { quiet.Handle(state) }).NotTo(Panic())
	})
})
