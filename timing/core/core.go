// Package core provides the cycle-accurate CPU core model.
// It wraps the pipeline implementation to provide a high-level interface.
package core

import (
	"fmt"

	"github.com/sarchlab/mumips/config"
	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/loader"
	"github.com/sarchlab/mumips/timing/cache"
	"github.com/sarchlab/mumips/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// ICache and DCache hold cache statistics when the caches are enabled.
	ICache cache.Statistics
	DCache cache.Statistics
}

// CPI returns the cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core represents a cycle-accurate CPU core model.
// It wraps a 5-stage pipeline, owns the memory and keeps the program image
// so that Reset can reload it.
type Core struct {
	// Pipeline is the underlying 5-stage pipeline.
	Pipeline *pipeline.Pipeline

	config   *config.Config
	memory   *emu.Memory
	program  *loader.Program
	textBase uint32
}

// New builds a core from the machine configuration, loads the program at
// the base of the text region and points the PC at it. Extra options are
// applied after those derived from cfg.
func New(cfg *config.Config, program *loader.Program, opts ...pipeline.PipelineOption) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine config: %w", err)
	}

	textBase, err := cfg.TextBase()
	if err != nil {
		return nil, err
	}

	memory := emu.NewMemory(cfg.Regions)

	pipeOpts := []pipeline.PipelineOption{
		pipeline.WithMaxCycles(cfg.MaxCycles),
		pipeline.WithLegacyWriteback(cfg.LegacyWriteback),
	}
	if cfg.ICache != nil {
		pipeOpts = append(pipeOpts, pipeline.WithICache(*cfg.ICache))
	}
	if cfg.DCache != nil {
		pipeOpts = append(pipeOpts, pipeline.WithDCache(*cfg.DCache))
	}
	pipeOpts = append(pipeOpts, opts...)

	c := &Core{
		Pipeline: pipeline.NewPipeline(memory, pipeOpts...),
		config:   cfg.Clone(),
		memory:   memory,
		program:  program,
		textBase: textBase,
	}
	c.Reset()

	return c, nil
}

// Reset zero-fills memory, reloads the program, clears all registers,
// counters and caches, and sets the PC to the text base.
func (c *Core) Reset() {
	c.memory.Reset()
	if c.program != nil {
		c.program.LoadInto(c.memory, c.textBase)
	}
	c.Pipeline.Reset(c.textBase)
}

// Tick executes one pipeline cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// Run executes the core until the run flag clears or the cycle limit is
// reached. Returns the number of cycles executed.
func (c *Core) Run() uint64 {
	return c.Pipeline.Run()
}

// RunCycles executes the core for up to the specified number of cycles.
// Returns the number of cycles executed.
func (c *Core) RunCycles(cycles uint64) uint64 {
	return c.Pipeline.RunCycles(cycles)
}

// Stop clears the run flag.
func (c *Core) Stop() {
	c.Pipeline.Stop()
}

// Running returns true until the program exits or Stop is called.
func (c *Core) Running() bool {
	return c.Pipeline.Running()
}

// State returns a copy of the current architectural state.
func (c *Core) State() emu.State {
	return c.Pipeline.State()
}

// SetRegister writes a general-purpose register.
func (c *Core) SetRegister(reg uint8, value uint32) {
	c.Pipeline.SetRegister(reg, value)
}

// SetHI writes the HI register.
func (c *Core) SetHI(value uint32) {
	c.Pipeline.SetHI(value)
}

// SetLO writes the LO register.
func (c *Core) SetLO(value uint32) {
	c.Pipeline.SetLO(value)
}

// Memory returns the core's memory.
func (c *Core) Memory() *emu.Memory {
	return c.memory
}

// Program returns the loaded program image.
func (c *Core) Program() *loader.Program {
	return c.program
}

// TextBase returns the address the program is loaded at.
func (c *Core) TextBase() uint32 {
	return c.textBase
}

// Config returns the machine configuration.
func (c *Core) Config() *config.Config {
	return c.config
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		ICache:       pipeStats.ICache,
		DCache:       pipeStats.DCache,
	}
}
