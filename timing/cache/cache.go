// Package cache provides L1 cache modeling using Akita cache components.
//
// The caches are write-through with no write-allocate, so the backing
// memory always holds the architectural value. They observe the access
// stream of the pipeline and report hit/miss statistics; they never change
// the result of a load or a fetch.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int `json:"size"`
	// Associativity (number of ways)
	Associativity int `json:"associativity"`
	// BlockSize in bytes (cache line size)
	BlockSize int `json:"block_size"`
}

// DefaultL1IConfig returns the default instruction cache: 8KB, 2-way,
// 32B lines.
func DefaultL1IConfig() Config {
	return Config{
		Size:          8 * 1024,
		Associativity: 2,
		BlockSize:     32,
	}
}

// DefaultL1DConfig returns the default data cache: 8KB, 4-way, 32B lines.
func DefaultL1DConfig() Config {
	return Config{
		Size:          8 * 1024,
		Associativity: 4,
		BlockSize:     32,
	}
}

// Validate checks the cache geometry.
func (c Config) Validate() error {
	if c.Size <= 0 || c.Associativity <= 0 || c.BlockSize <= 0 {
		return fmt.Errorf("cache size, associativity and block_size must be > 0")
	}
	if c.BlockSize < 4 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("cache block_size must be a power of two >= 4, got %d", c.BlockSize)
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("cache size %d is not a multiple of associativity*block_size (%d)",
			c.Size, c.Associativity*c.BlockSize)
	}
	return nil
}

// NumSets returns the number of sets implied by the geometry.
func (c Config) NumSets() int {
	return c.Size / (c.Associativity * c.BlockSize)
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Data is the word read (for read operations).
	Data uint32
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted is true).
	EvictedAddr uint32
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits over total accesses.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore interface for the next level in the memory hierarchy.
type BackingStore interface {
	// Read fetches data from the backing store.
	Read(addr uint32, size int) []byte
	// Write stores data to the backing store.
	Write(addr uint32, data []byte)
}

// Cache represents an L1 cache using Akita cache components.
type Cache struct {
	// Configuration
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]byte

	// Statistics
	stats Statistics

	// Backing store interface (for fetching on miss and write-through)
	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.NumSets()
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint64 {
	bs := uint64(c.config.BlockSize)
	return (uint64(addr) / bs) * bs
}

// Read performs a 4-byte cache read.
func (c *Cache) Read(addr uint32) AccessResult {
	c.stats.Reads++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint32(c.config.BlockSize)
		return AccessResult{
			Hit:  true,
			Data: extractWord(c.dataStore[c.blockIndex(block)], offset),
		}
	}

	c.stats.Misses++
	return c.fill(addr)
}

// Write performs a 4-byte write-through. A hit updates the cached line; a
// miss does not allocate.
func (c *Cache) Write(addr uint32, data uint32) AccessResult {
	c.stats.Writes++

	result := AccessResult{}
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		offset := addr % uint32(c.config.BlockSize)
		storeWord(c.dataStore[c.blockIndex(block)], offset, data)
		result.Hit = true
	} else {
		c.stats.Misses++
	}

	if c.backing != nil {
		c.backing.Write(addr, []byte{
			byte(data), byte(data >> 8), byte(data >> 16), byte(data >> 24),
		})
	}

	return result
}

// fill handles a read miss by fetching the block from the backing store.
func (c *Cache) fill(addr uint32) AccessResult {
	result := AccessResult{}
	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(uint32(blockAddr), c.config.BlockSize))
	} else {
		clear(victimData)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	result.Data = extractWord(victimData, addr%uint32(c.config.BlockSize))
	return result
}

// Invalidate marks a cache line as invalid.
func (c *Cache) Invalidate(addr uint32) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

// extractWord assembles a little-endian word; bytes past the line read as 0.
func extractWord(data []byte, offset uint32) uint32 {
	var result uint32
	for i := uint32(0); i < 4; i++ {
		if int(offset+i) >= len(data) {
			break
		}
		result |= uint32(data[offset+i]) << (i * 8)
	}
	return result
}

// storeWord stores a little-endian word; bytes past the line are dropped.
func storeWord(data []byte, offset uint32, value uint32) {
	for i := uint32(0); i < 4; i++ {
		if int(offset+i) >= len(data) {
			break
		}
		data[offset+i] = byte(value >> (i * 8))
	}
}
