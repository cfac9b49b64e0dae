package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/loader"
)

var _ = Describe("Loader", func() {
	Describe("Parse", func() {
		It("should read one word per line", func() {
			prog, err := loader.Parse(strings.NewReader("20010005\n20020007\n00221820\n"))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x20010005, 0x20020007, 0x00221820}))
			Expect(prog.Size()).To(Equal(3))
		})

		It("should accept prefixes, comments and blank lines", func() {
			src := `# test program
0x20010005   ; addi $1, $0, 5

0X20020007 00221820  # two on a line
`
			prog, err := loader.Parse(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x20010005, 0x20020007, 0x00221820}))
		})

		It("should report the line of a bad word", func() {
			_, err := loader.Parse(strings.NewReader("00000000\nzz\n"))

			Expect(err).To(MatchError(ContainSubstring("line 2")))
			Expect(err).To(MatchError(ContainSubstring(`"zz"`)))
		})

		It("should reject words wider than 32 bits", func() {
			_, err := loader.Parse(strings.NewReader("100000000"))
			Expect(err).To(HaveOccurred())
		})

		It("should reject an empty image", func() {
			_, err := loader.Parse(strings.NewReader("# nothing\n\n"))
			Expect(err).To(MatchError(loader.ErrEmptyProgram))
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should record the path", func() {
			path := filepath.Join(tempDir, "prog.in")
			Expect(os.WriteFile(path, []byte("0000000c\n"), 0644)).To(Succeed())

			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Words).To(Equal([]uint32{0x0000000C}))
		})

		It("should fail for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.in"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	Describe("LoadInto", func() {
		It("should write consecutive words from the base", func() {
			memory := emu.NewDefaultMemory()
			prog := &loader.Program{Words: []uint32{0x11111111, 0x22222222}}

			prog.LoadInto(memory, emu.TextBegin)

			Expect(memory.Read32(emu.TextBegin)).To(Equal(uint32(0x11111111)))
			Expect(memory.Read32(emu.TextBegin + 4)).To(Equal(uint32(0x22222222)))
			Expect(memory.Read32(emu.TextBegin + 8)).To(BeZero())
		})
	})
})
