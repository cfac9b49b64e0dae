package shell

import (
	"fmt"

	"github.com/sarchlab/mumips/timing/pipeline"
)

// Rdump prints the counters, PC and every register.
func (s *Shell) Rdump() {
	w := s.out
	state := s.core.State()
	stats := s.core.Stats()

	fmt.Fprintln(w, ruleShort)
	fmt.Fprintln(w, "Dumping Register Content")
	fmt.Fprintln(w, ruleShort)
	fmt.Fprintf(w, "# Instructions Executed\t: %d\n", stats.Instructions)
	fmt.Fprintf(w, "# Cycles Executed\t: %d\n", stats.Cycles)
	fmt.Fprintf(w, "PC\t: 0x%08x\n", state.PC)
	fmt.Fprintln(w, ruleShort)
	fmt.Fprintln(w, "[Register]\t[Value]")
	fmt.Fprintln(w, ruleShort)
	for i, v := range state.Regs {
		fmt.Fprintf(w, "[R%d]\t: 0x%08x\n", i, v)
	}
	fmt.Fprintln(w, ruleShort)
	fmt.Fprintf(w, "[HI]\t: 0x%08x\n", state.HI)
	fmt.Fprintf(w, "[LO]\t: 0x%08x\n", state.LO)
	fmt.Fprintln(w, ruleShort)
}

// Mdump prints the words from start to stop inclusive.
func (s *Shell) Mdump(start, stop uint32) {
	w := s.out
	memory := s.core.Memory()

	fmt.Fprintln(w, ruleMid)
	fmt.Fprintf(w, "Memory content [0x%08x..0x%08x] :\n", start, stop)
	fmt.Fprintln(w, ruleMid)
	fmt.Fprintln(w, "\t[Address in Hex (Dec) ]\t[Value]")
	for addr := uint64(start); addr <= uint64(stop); addr += 4 {
		a := uint32(addr)
		fmt.Fprintf(w, "\t0x%08x (%d) :\t0x%08x\n", a, int32(a), memory.Read32(a))
	}
	fmt.Fprintln(w)
}

// ShowPipeline prints the four pipeline registers.
func (s *Shell) ShowPipeline() {
	w := s.out
	p := s.core.Pipeline

	fmt.Fprintf(w, "Current PC: 0x%08x\n", p.PC())
	latches := []struct {
		name string
		reg  *pipeline.Register
	}{
		{"IF/ID", p.GetIFID()},
		{"ID/EX", p.GetIDEX()},
		{"EX/MEM", p.GetEXMEM()},
		{"MEM/WB", p.GetMEMWB()},
	}
	for _, l := range latches {
		fmt.Fprintf(w, "%-7s %s\n", l.name, l.reg.String())
	}
	fmt.Fprintln(w)
}

// PrintProgram prints the loaded program with its disassembly.
func (s *Shell) PrintProgram() {
	w := s.out
	prog := s.core.Program()
	if prog == nil {
		return
	}

	base := s.core.TextBase()
	for i, word := range prog.Words {
		addr := base + uint32(4*i)
		fmt.Fprintf(w, "[0x%08x]\t0x%08x\t%s\n", addr, word, s.decoder.Disassemble(word))
	}
	fmt.Fprintln(w)
}

// Stats prints cycle and instruction counts, and cache statistics when the
// caches are enabled.
func (s *Shell) Stats() {
	w := s.out
	stats := s.core.Stats()

	fmt.Fprintf(w, "Cycles\t\t: %d\n", stats.Cycles)
	fmt.Fprintf(w, "Instructions\t: %d\n", stats.Instructions)
	fmt.Fprintf(w, "CPI\t\t: %.2f\n", stats.CPI())
	if s.core.Pipeline.UseICache() {
		fmt.Fprintf(w, "L1I\t\t: %d hits, %d misses (%.1f%%)\n",
			stats.ICache.Hits, stats.ICache.Misses, 100*stats.ICache.HitRate())
	}
	if s.core.Pipeline.UseDCache() {
		fmt.Fprintf(w, "L1D\t\t: %d hits, %d misses (%.1f%%)\n",
			stats.DCache.Hits, stats.DCache.Misses, 100*stats.DCache.HitRate())
	}
	fmt.Fprintln(w)
}
