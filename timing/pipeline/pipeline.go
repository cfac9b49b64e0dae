package pipeline

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/timing/cache"
)

// Stage names in execution order.
const (
	StageWriteback = "writeback"
	StageMemory    = "memory"
	StageExecute   = "execute"
	StageDecode    = "decode"
	StageFetch     = "fetch"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions completed (retired).
	Instructions uint64
	// ICache holds instruction cache statistics, if an I-cache is enabled.
	ICache cache.Statistics
	// DCache holds data cache statistics, if a D-cache is enabled.
	DCache cache.Statistics
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger that receives diagnostics.
func WithLogger(logger logrus.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler emu.SyscallHandler) PipelineOption {
	return func(p *Pipeline) {
		p.syscallHandler = handler
	}
}

// WithSyscallOutput sets where the default syscall handler prints. It has
// no effect when WithSyscallHandler is also given.
func WithSyscallOutput(w io.Writer) PipelineOption {
	return func(p *Pipeline) {
		p.syscallOut = w
	}
}

// WithICache enables L1 instruction cache with the given configuration.
func WithICache(config cache.Config) PipelineOption {
	return func(p *Pipeline) {
		backing := cache.NewMemoryBacking(p.memory)
		p.icache = NewCachedPort(cache.New(config, backing), p.memory)
	}
}

// WithDCache enables L1 data cache with the given configuration.
func WithDCache(config cache.Config) PipelineOption {
	return func(p *Pipeline) {
		backing := cache.NewMemoryBacking(p.memory)
		p.dcache = NewCachedPort(cache.New(config, backing), p.memory)
	}
}

// WithMaxCycles bounds Run to the given total cycle count. Zero means no
// bound.
func WithMaxCycles(n uint64) PipelineOption {
	return func(p *Pipeline) {
		p.maxCycles = n
	}
}

// WithLegacyWriteback makes every recognized instruction except SYSCALL
// write a register at writeback.
func WithLegacyWriteback(legacy bool) PipelineOption {
	return func(p *Pipeline) {
		p.legacyWriteback = legacy
	}
}

type stage struct {
	name string
	tick func()
}

// Pipeline implements a 5-stage pipelined CPU model.
// Stages: Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB)
//
// There is no hazard detection, forwarding or stalling. An instruction that
// reads a register written by one of the four instructions ahead of it sees
// the old value.
type Pipeline struct {
	// Pipeline registers
	ifid  Register
	idex  Register
	exmem Register
	memwb Register

	// Architectural state. Stages read current and write next; next
	// replaces current at the end of every cycle.
	current emu.State
	next    emu.State

	// Pipeline stages
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
	stages         []stage

	// Cached ports (optional)
	icache *CachedPort
	dcache *CachedPort

	memory          *emu.Memory
	syscallHandler  emu.SyscallHandler
	syscallOut      io.Writer
	logger          logrus.FieldLogger
	legacyWriteback bool
	maxCycles       uint64

	stats   Statistics
	running bool
}

// NewPipeline creates a new 5-stage pipeline over memory. The pipeline
// starts running with all state zeroed; call Reset to set the entry PC.
func NewPipeline(memory *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		memory:  memory,
		running: true,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logrus.StandardLogger()
	}

	// Set up default syscall handler if none provided
	if p.syscallHandler == nil {
		p.syscallHandler = emu.NewDefaultSyscallHandler(memory, p.syscallOut)
	}

	var fetchPort, dataPort MemoryPort = memory, memory
	if p.icache != nil {
		fetchPort = p.icache
	}
	if p.dcache != nil {
		dataPort = p.dcache
	}
	if p.icache != nil {
		dataPort = NewSnoopPort(dataPort, p.icache.Cache())
	}

	p.fetchStage = NewFetchStage(fetchPort)
	p.decodeStage = NewDecodeStage()
	p.executeStage = NewExecuteStage(p.logger)
	p.memoryStage = NewMemoryStage(dataPort)
	p.writebackStage = NewWritebackStage(p.syscallHandler, p.logger, p.legacyWriteback)

	// Later stages run first so that each reads its input latch before the
	// upstream stage overwrites it.
	p.stages = []stage{
		{StageWriteback, p.writeback},
		{StageMemory, p.memoryAccess},
		{StageExecute, p.execute},
		{StageDecode, p.decode},
		{StageFetch, p.fetch},
	}

	return p
}

func (p *Pipeline) writeback() {
	result := p.writebackStage.Writeback(&p.current, &p.next, &p.memwb)
	if result.Retired {
		p.stats.Instructions++
	}
	if result.Exited {
		p.running = false
	}
}

func (p *Pipeline) memoryAccess() {
	p.memoryStage.Access(&p.exmem, &p.memwb)
}

func (p *Pipeline) execute() {
	p.executeStage.Execute(&p.current, &p.next, &p.idex, &p.exmem)
}

func (p *Pipeline) decode() {
	p.decodeStage.Decode(&p.current, &p.ifid, &p.idex)
}

func (p *Pipeline) fetch() {
	p.fetchStage.Fetch(&p.current, &p.next, &p.ifid)
}

// StageOrder returns the stage names in the order Tick runs them.
func (p *Pipeline) StageOrder() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Tick executes one pipeline cycle.
func (p *Pipeline) Tick() {
	for _, s := range p.stages {
		s.tick()
	}

	p.current = p.next
	p.stats.Cycles++
}

// Run ticks until the run flag clears or the cycle limit is reached.
// Returns the number of cycles executed.
func (p *Pipeline) Run() uint64 {
	start := p.stats.Cycles
	for p.running {
		if p.maxCycles > 0 && p.stats.Cycles >= p.maxCycles {
			p.logger.WithField("max_cycles", p.maxCycles).Warn("cycle limit reached")
			break
		}
		p.Tick()
	}
	return p.stats.Cycles - start
}

// RunCycles ticks up to n cycles, stopping early if the run flag clears.
// Returns the number of cycles executed.
func (p *Pipeline) RunCycles(n uint64) uint64 {
	var i uint64
	for ; i < n && p.running; i++ {
		p.Tick()
	}
	return i
}

// Stop clears the run flag.
func (p *Pipeline) Stop() {
	p.running = false
}

// Running reports whether the run flag is set.
func (p *Pipeline) Running() bool {
	return p.running
}

// Reset zeroes the architectural state, pipeline registers, statistics and
// caches, sets the PC and sets the run flag.
func (p *Pipeline) Reset(pc uint32) {
	p.current.Reset(pc)
	p.next = p.current

	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()

	if p.icache != nil {
		p.icache.Cache().Reset()
	}
	if p.dcache != nil {
		p.dcache.Cache().Reset()
	}

	p.stats = Statistics{}
	p.running = true
}

// State returns a copy of the current architectural state.
func (p *Pipeline) State() emu.State {
	return p.current
}

// NextState returns a copy of the state being built by the running cycle.
// Between cycles it equals State.
func (p *Pipeline) NextState() emu.State {
	return p.next
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.current.PC
}

// SetRegister writes a general-purpose register in both current and next.
func (p *Pipeline) SetRegister(reg uint8, value uint32) {
	p.current.WriteReg(reg, value)
	p.next.WriteReg(reg, value)
}

// SetHI writes HI in both current and next.
func (p *Pipeline) SetHI(value uint32) {
	p.current.HI = value
	p.next.HI = value
}

// SetLO writes LO in both current and next.
func (p *Pipeline) SetLO(value uint32) {
	p.current.LO = value
	p.next.LO = value
}

// GetIFID returns the IF/ID pipeline register.
func (p *Pipeline) GetIFID() *Register {
	return &p.ifid
}

// GetIDEX returns the ID/EX pipeline register.
func (p *Pipeline) GetIDEX() *Register {
	return &p.idex
}

// GetEXMEM returns the EX/MEM pipeline register.
func (p *Pipeline) GetEXMEM() *Register {
	return &p.exmem
}

// GetMEMWB returns the MEM/WB pipeline register.
func (p *Pipeline) GetMEMWB() *Register {
	return &p.memwb
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	stats := p.stats
	if p.icache != nil {
		stats.ICache = p.icache.Cache().Stats()
	}
	if p.dcache != nil {
		stats.DCache = p.dcache.Cache().Stats()
	}
	return stats
}

// UseICache returns whether the I-cache is enabled.
func (p *Pipeline) UseICache() bool {
	return p.icache != nil
}

// UseDCache returns whether the D-cache is enabled.
func (p *Pipeline) UseDCache() bool {
	return p.dcache != nil
}
