package emu

import "fmt"

// Default memory map.
const (
	TextBegin  uint32 = 0x00400000
	TextEnd    uint32 = 0x004FFFFF
	DataBegin  uint32 = 0x10000000
	DataEnd    uint32 = 0x100FFFFF
	StackBegin uint32 = 0x7FF00000
	StackEnd   uint32 = 0x7FFFFFFF
	KDataBegin uint32 = 0x90000000
	KDataEnd   uint32 = 0x900FFFFF
	KTextBegin uint32 = 0x80000000
	KTextEnd   uint32 = 0x800FFFFF
)

// RegionConfig describes one address range of the memory map.
type RegionConfig struct {
	Name  string `json:"name"`
	Begin uint32 `json:"begin"`
	End   uint32 `json:"end"`
}

// Size returns the number of bytes covered by the range.
func (c RegionConfig) Size() uint64 {
	return uint64(c.End) - uint64(c.Begin) + 1
}

// Overlaps reports whether two ranges share an address.
func (c RegionConfig) Overlaps(other RegionConfig) bool {
	return c.Begin <= other.End && other.Begin <= c.End
}

// DefaultRegions returns the MU-MIPS memory map.
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{Name: "text", Begin: TextBegin, End: TextEnd},
		{Name: "data", Begin: DataBegin, End: DataEnd},
		{Name: "stack", Begin: StackBegin, End: StackEnd},
		{Name: "kdata", Begin: KDataBegin, End: KDataEnd},
		{Name: "ktext", Begin: KTextBegin, End: KTextEnd},
	}
}

// Region is a contiguous byte range [Begin, End] with its backing buffer.
type Region struct {
	Name  string
	Begin uint32
	End   uint32
	mem   []byte
}

// Contains reports whether addr falls inside the region.
func (r *Region) Contains(addr uint32) bool {
	return addr >= r.Begin && addr <= r.End
}

// Memory is byte-addressable storage split into named regions. Addresses
// outside every region read as 0 and ignore writes.
type Memory struct {
	regions []*Region
}

// NewMemory allocates zero-filled regions for the given map. The ranges are
// expected to be disjoint; see config.Validate.
func NewMemory(regions []RegionConfig) *Memory {
	m := &Memory{regions: make([]*Region, 0, len(regions))}
	for _, rc := range regions {
		m.regions = append(m.regions, &Region{
			Name:  rc.Name,
			Begin: rc.Begin,
			End:   rc.End,
			mem:   make([]byte, rc.Size()),
		})
	}
	return m
}

// NewDefaultMemory allocates the MU-MIPS memory map.
func NewDefaultMemory() *Memory {
	return NewMemory(DefaultRegions())
}

// Regions returns the configured regions in map order.
func (m *Memory) Regions() []*Region {
	return m.regions
}

// Region looks up a region by name.
func (m *Memory) Region(name string) (*Region, error) {
	for _, r := range m.regions {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("memory region %q not found", name)
}

// Contains reports whether addr belongs to any region.
func (m *Memory) Contains(addr uint32) bool {
	return m.find(addr) != nil
}

// ContainsWord reports whether all four bytes at addr belong to the same
// region.
func (m *Memory) ContainsWord(addr uint32) bool {
	r := m.find(addr)
	return r != nil && uint64(addr)+3 <= uint64(r.End)
}

// Reset zero-fills every region.
func (m *Memory) Reset() {
	for _, r := range m.regions {
		clear(r.mem)
	}
}

func (m *Memory) find(addr uint32) *Region {
	for _, r := range m.regions {
		if r.Contains(addr) {
			return r
		}
	}
	return nil
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint32) byte {
	r := m.find(addr)
	if r == nil {
		return 0
	}
	return r.mem[addr-r.Begin]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint32, value byte) {
	r := m.find(addr)
	if r == nil {
		return
	}
	r.mem[addr-r.Begin] = value
}

// Read32 reads a little-endian word. The owning region is selected by the
// first byte; bytes past the end of that region read as 0.
func (m *Memory) Read32(addr uint32) uint32 {
	r := m.find(addr)
	if r == nil {
		return 0
	}

	offset := uint64(addr - r.Begin)
	var value uint32
	for i := uint64(0); i < 4; i++ {
		if offset+i >= uint64(len(r.mem)) {
			break
		}
		value |= uint32(r.mem[offset+i]) << (8 * i)
	}
	return value
}

// Write32 writes a little-endian word. Bytes that would fall past the end
// of the owning region are dropped.
func (m *Memory) Write32(addr uint32, value uint32) {
	r := m.find(addr)
	if r == nil {
		return
	}

	offset := uint64(addr - r.Begin)
	for i := uint64(0); i < 4; i++ {
		if offset+i >= uint64(len(r.mem)) {
			break
		}
		r.mem[offset+i] = byte(value >> (8 * i))
	}
}

// LoadWords writes words at consecutive word addresses starting at base.
func (m *Memory) LoadWords(base uint32, words []uint32) {
	for i, w := range words {
		m.Write32(base+uint32(4*i), w)
	}
}
