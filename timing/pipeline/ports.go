package pipeline

import (
	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/timing/cache"
)

// MemoryPort is the word interface a stage uses to reach memory.
type MemoryPort interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// CachedPort routes word accesses through an L1 cache. Words that do not
// lie wholly inside one memory region bypass the cache so that their
// truncating and out-of-range behavior stays identical to plain memory.
type CachedPort struct {
	cache  *cache.Cache
	memory *emu.Memory
}

// NewCachedPort creates a cached port over memory.
func NewCachedPort(c *cache.Cache, memory *emu.Memory) *CachedPort {
	return &CachedPort{
		cache:  c,
		memory: memory,
	}
}

// Cache returns the underlying cache.
func (p *CachedPort) Cache() *cache.Cache {
	return p.cache
}

// Read32 reads a word through the cache.
func (p *CachedPort) Read32(addr uint32) uint32 {
	if !p.memory.ContainsWord(addr) {
		return p.memory.Read32(addr)
	}
	result := p.cache.Read(addr)
	if p.splitsLine(addr) {
		return p.memory.Read32(addr)
	}
	return result.Data
}

// Write32 writes a word through the cache. The cache is write-through, so
// memory is updated on both hit and miss. A bypassed word still drops any
// line holding the bytes it wrote.
func (p *CachedPort) Write32(addr uint32, value uint32) {
	if !p.memory.ContainsWord(addr) {
		p.memory.Write32(addr, value)
		invalidateWord(p.cache, addr)
		return
	}
	p.cache.Write(addr, value)

	// The cache stores only the bytes that fall in the first line.
	if p.splitsLine(addr) {
		p.cache.Invalidate(addr + 3)
	}
}

// splitsLine reports whether the word at addr spans two cache lines.
func (p *CachedPort) splitsLine(addr uint32) bool {
	bs := uint32(p.cache.Config().BlockSize)
	return addr/bs != (addr+3)/bs
}

// SnoopPort forwards accesses to another port and invalidates the lines a
// write touches in each snooped cache. The pipeline places it on the data
// side so that stores into text are seen by a later fetch through the
// I-cache.
type SnoopPort struct {
	next   MemoryPort
	caches []*cache.Cache
}

// NewSnoopPort creates a port that snoops writes into caches.
func NewSnoopPort(next MemoryPort, caches ...*cache.Cache) *SnoopPort {
	return &SnoopPort{
		next:   next,
		caches: caches,
	}
}

// Read32 reads a word from the next port.
func (p *SnoopPort) Read32(addr uint32) uint32 {
	return p.next.Read32(addr)
}

// Write32 writes a word to the next port, then invalidates it in every
// snooped cache.
func (p *SnoopPort) Write32(addr uint32, value uint32) {
	p.next.Write32(addr, value)
	for _, c := range p.caches {
		invalidateWord(c, addr)
	}
}

// invalidateWord drops the lines holding the first and last byte of the
// word at addr.
func invalidateWord(c *cache.Cache, addr uint32) {
	c.Invalidate(addr)
	c.Invalidate(addr + 3)
}
