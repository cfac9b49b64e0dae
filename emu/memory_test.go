package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mumips/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewDefaultMemory()
	})

	Describe("Read32 / Write32", func() {
		It("should round-trip a word inside every region", func() {
			for _, r := range memory.Regions() {
				memory.Write32(r.Begin+8, 0xDEADBEEF)
				Expect(memory.Read32(r.Begin+8)).To(Equal(uint32(0xDEADBEEF)), r.Name)
			}
		})

		It("should store words little-endian", func() {
			memory.Write32(emu.DataBegin, 0x11223344)

			Expect(memory.Read8(emu.DataBegin)).To(Equal(byte(0x44)))
			Expect(memory.Read8(emu.DataBegin + 1)).To(Equal(byte(0x33)))
			Expect(memory.Read8(emu.DataBegin + 2)).To(Equal(byte(0x22)))
			Expect(memory.Read8(emu.DataBegin + 3)).To(Equal(byte(0x11)))
		})

		It("should leave neighbouring bytes untouched", func() {
			memory.Write32(emu.DataBegin, 0xFFFFFFFF)
			memory.Write32(emu.DataBegin+8, 0xFFFFFFFF)
			memory.Write32(emu.DataBegin+4, 0x01020304)

			Expect(memory.Read32(emu.DataBegin)).To(Equal(uint32(0xFFFFFFFF)))
			Expect(memory.Read32(emu.DataBegin + 8)).To(Equal(uint32(0xFFFFFFFF)))
			Expect(memory.Read32(emu.DataBegin + 4)).To(Equal(uint32(0x01020304)))
		})

		It("should not check alignment", func() {
			memory.Write32(emu.DataBegin+1, 0xAABBCCDD)

			Expect(memory.Read32(emu.DataBegin + 1)).To(Equal(uint32(0xAABBCCDD)))
			Expect(memory.Read8(emu.DataBegin)).To(Equal(byte(0)))
		})
	})

	Describe("addresses outside every region", func() {
		It("should read as zero", func() {
			Expect(memory.Read32(0x00000000)).To(BeZero())
			Expect(memory.Read32(0x20000000)).To(BeZero())
			Expect(memory.Contains(0x20000000)).To(BeFalse())
		})

		It("should drop writes", func() {
			memory.Write32(0x20000000, 0x12345678)
			memory.Write8(0x20000004, 0x9A)

			Expect(memory.Read32(0x20000000)).To(BeZero())
			Expect(memory.Read8(0x20000004)).To(BeZero())
			for _, r := range memory.Regions() {
				Expect(memory.Read32(r.Begin)).To(BeZero())
			}
		})
	})

	Describe("region boundaries", func() {
		It("should truncate a word straddling the end of a region", func() {
			memory.Write32(emu.TextEnd-1, 0xAABBCCDD)

			Expect(memory.Read8(emu.TextEnd - 1)).To(Equal(byte(0xDD)))
			Expect(memory.Read8(emu.TextEnd)).To(Equal(byte(0xCC)))
			Expect(memory.Read32(emu.TextEnd - 1)).To(Equal(uint32(0x0000CCDD)))
			Expect(memory.Read32(emu.TextEnd + 1)).To(BeZero())
		})

		It("should accept the last and first byte of a region", func() {
			Expect(memory.Contains(emu.StackBegin)).To(BeTrue())
			Expect(memory.Contains(emu.StackEnd)).To(BeTrue())
			Expect(memory.Contains(emu.StackBegin - 1)).To(BeFalse())
		})
	})

	Describe("Region lookup", func() {
		It("should find regions by name", func() {
			r, err := memory.Region("stack")

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Begin).To(Equal(emu.StackBegin))
			Expect(r.End).To(Equal(emu.StackEnd))
		})

		It("should report a missing region", func() {
			_, err := memory.Region("heap")
			Expect(err).To(MatchError(ContainSubstring("heap")))
		})
	})

	Describe("Reset", func() {
		It("should zero-fill every region", func() {
			memory.Write32(emu.TextBegin, 0x01234567)
			memory.Write32(emu.KTextBegin, 0x89ABCDEF)

			memory.Reset()

			Expect(memory.Read32(emu.TextBegin)).To(BeZero())
			Expect(memory.Read32(emu.KTextBegin)).To(BeZero())
		})
	})

	Describe("LoadWords", func() {
		It("should place words at consecutive addresses", func() {
			memory.LoadWords(emu.TextBegin, []uint32{0x11111111, 0x22222222, 0x33333333})

			Expect(memory.Read32(emu.TextBegin)).To(Equal(uint32(0x11111111)))
			Expect(memory.Read32(emu.TextBegin + 4)).To(Equal(uint32(0x22222222)))
			Expect(memory.Read32(emu.TextBegin + 8)).To(Equal(uint32(0x33333333)))
		})
	})

	Describe("custom maps", func() {
		It("should allocate exactly the configured ranges", func() {
			m := emu.NewMemory([]emu.RegionConfig{{Name: "tiny", Begin: 0x100, End: 0x107}})

			m.Write32(0x104, 0xCAFEF00D)
			Expect(m.Read32(0x104)).To(Equal(uint32(0xCAFEF00D)))
			Expect(m.Contains(0x108)).To(BeFalse())
		})
	})
})

var _ = Describe("RegionConfig", func() {
	It("should compute inclusive sizes", func() {
		rc := emu.RegionConfig{Begin: 0x10, End: 0x1F}
		Expect(rc.Size()).To(Equal(uint64(16)))
	})

	It("should handle a region ending at the top of the address space", func() {
		rc := emu.RegionConfig{Begin: 0xFFFFFF00, End: 0xFFFFFFFF}
		Expect(rc.Size()).To(Equal(uint64(256)))
	})

	It("should detect overlap", func() {
		a := emu.RegionConfig{Begin: 0x100, End: 0x1FF}
		Expect(a.Overlaps(emu.RegionConfig{Begin: 0x1FF, End: 0x2FF})).To(BeTrue())
		Expect(a.Overlaps(emu.RegionConfig{Begin: 0x200, End: 0x2FF})).To(BeFalse())
	})
})

var _ = Describe("State", func() {
	It("should not special-case register 0", func() {
		s := &emu.State{}
		s.WriteReg(0, 42)
		Expect(s.ReadReg(0)).To(Equal(uint32(42)))
	})

	It("should ignore out-of-range registers", func() {
		s := &emu.State{}
		s.WriteReg(32, 1)
		Expect(s.ReadReg(32)).To(BeZero())
	})

	It("should reset to a given PC", func() {
		s := &emu.State{HI: 1, LO: 2, PC: 3}
		s.Regs[5] = 9

		s.Reset(emu.TextBegin)

		Expect(*s).To(Equal(emu.State{PC: emu.TextBegin}))
	})
})

var _ = Describe("Memory word containment", func() {
	It("should require all four bytes in one region", func() {
		memory := emu.NewDefaultMemory()

		Expect(memory.ContainsWord(emu.DataBegin)).To(BeTrue())
		Expect(memory.ContainsWord(emu.DataEnd - 3)).To(BeTrue())
		Expect(memory.ContainsWord(emu.DataEnd - 2)).To(BeFalse())
		Expect(memory.ContainsWord(0x20000000)).To(BeFalse())
	})
})
