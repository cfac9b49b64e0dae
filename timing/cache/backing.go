package cache

import (
	"github.com/sarchlab/mumips/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint32, size int) []byte {
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		data[i] = m.memory.Read8(addr + uint32(i))
	}
	return data
}

// Write stores data to the backing memory.
func (m *MemoryBacking) Write(addr uint32, data []byte) {
	for i, b := range data {
		m.memory.Write8(addr+uint32(i), b)
	}
}
