package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/insts"
)

// FetchStage handles instruction fetch from memory.
type FetchStage struct {
	port MemoryPort
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(port MemoryPort) *FetchStage {
	return &FetchStage{
		port: port,
	}
}

// Fetch reads the instruction at current.PC into IF/ID and advances
// next.PC by one word.
func (s *FetchStage) Fetch(current, next *emu.State, ifid *Register) {
	ifid.Clear()
	ifid.IR = s.port.Read32(current.PC)
	ifid.PC = current.PC + 4
	next.PC = ifid.PC
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct{}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage() *DecodeStage {
	return &DecodeStage{}
}

// Decode reads rs and rt from the current state and sign-extends the
// immediate field.
func (s *DecodeStage) Decode(current *emu.State, ifid, idex *Register) {
	idex.Clear()
	idex.IR = ifid.IR
	idex.PC = ifid.PC
	idex.A = current.ReadReg(insts.RsOf(ifid.IR))
	idex.B = current.ReadReg(insts.RtOf(ifid.IR))
	idex.Imm = insts.SignExtend16(insts.Imm16Of(ifid.IR))
}

// loadMasks truncates the loaded word by access width. Narrow loads are
// not sign-extended.
var loadMasks = map[insts.Op]uint32{
	insts.OpLB: 0x000000FF,
	insts.OpLH: 0x0000FFFF,
	insts.OpLW: 0xFFFFFFFF,
}

// MemoryStage handles memory load/store operations.
type MemoryStage struct {
	decoder *insts.Decoder
	port    MemoryPort
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(port MemoryPort) *MemoryStage {
	return &MemoryStage{
		decoder: insts.NewDecoder(),
		port:    port,
	}
}

// Access performs the load or store latched in EX/MEM. Stores always write
// the full 32-bit value of B regardless of width.
func (s *MemoryStage) Access(exmem, memwb *Register) {
	*memwb = *exmem
	memwb.LMD = 0

	if exmem.Opcode() == insts.OpcodeSpecial {
		return
	}

	inst := s.decoder.Decode(exmem.IR)
	if mask, ok := loadMasks[inst.Op]; ok {
		memwb.LMD = s.port.Read32(exmem.ALUOutput) & mask
		return
	}
	if inst.IsStore() {
		s.port.Write32(exmem.ALUOutput, exmem.B)
	}
}

// WritebackResult reports what the writeback stage did this cycle.
type WritebackResult struct {
	// Retired is true if the instruction counts as completed.
	Retired bool

	// Exited is true if a syscall requested the simulation to stop.
	Exited bool
}

// WritebackStage handles register file writeback.
type WritebackStage struct {
	decoder        *insts.Decoder
	syscallHandler emu.SyscallHandler
	logger         logrus.FieldLogger
	legacy         bool
}

// NewWritebackStage creates a new writeback stage. With legacy set, every
// recognized instruction except SYSCALL writes a register, including those
// that have no architectural destination.
func NewWritebackStage(
	handler emu.SyscallHandler,
	logger logrus.FieldLogger,
	legacy bool,
) *WritebackStage {
	return &WritebackStage{
		decoder:        insts.NewDecoder(),
		syscallHandler: handler,
		logger:         logger,
		legacy:         legacy,
	}
}

// Writeback commits the instruction latched in MEM/WB to next. The
// destination and value are derived from memwb.IR only.
func (s *WritebackStage) Writeback(current, next *emu.State, memwb *Register) WritebackResult {
	inst := s.decoder.Decode(memwb.IR)
	if !inst.Known() {
		return WritebackResult{}
	}

	if inst.Op == insts.OpSYSCALL {
		return s.syscall(current, memwb)
	}

	value := memwb.ALUOutput
	if inst.IsLoad() {
		value = memwb.LMD
	}

	switch s.destination(inst) {
	case insts.DestRd:
		next.WriteReg(inst.Rd, value)
	case insts.DestRt:
		next.WriteReg(inst.Rt, value)
	}

	return WritebackResult{Retired: true}
}

func (s *WritebackStage) destination(inst *insts.Instruction) insts.Dest {
	if !s.legacy {
		return inst.Dest()
	}
	if inst.Format == insts.FormatR {
		return insts.DestRd
	}
	return insts.DestRt
}

func (s *WritebackStage) syscall(current *emu.State, memwb *Register) WritebackResult {
	if s.syscallHandler == nil {
		return WritebackResult{}
	}

	result := s.syscallHandler.Handle(current)
	if result.Unknown {
		s.logger.WithFields(instFields(memwb)).
			WithField("v0", current.ReadReg(emu.RegV0)).
			Debug("unknown syscall ignored")
	}

	return WritebackResult{Exited: result.Exited}
}

// instFields describes the instruction latched in r for diagnostics. The
// latched PC is one word past the instruction.
func instFields(r *Register) logrus.Fields {
	return logrus.Fields{
		"pc": hex32(r.PC - 4),
		"ir": hex32(r.IR),
	}
}
