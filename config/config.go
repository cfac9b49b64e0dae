// Package config holds the machine configuration: the memory map, the
// optional L1 caches and the simulation limits.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/mumips/emu"
	"github.com/sarchlab/mumips/timing/cache"
)

// DefaultTextRegion is the region programs are loaded into.
const DefaultTextRegion = "text"

// ErrOverlappingRegions is returned by Validate when two regions share an
// address.
var ErrOverlappingRegions = errors.New("memory regions overlap")

// Config describes one simulated machine.
type Config struct {
	// Regions is the memory map. Regions must be disjoint.
	Regions []emu.RegionConfig `json:"regions"`

	// TextRegion names the region the program image is loaded into. The
	// PC starts at its base address.
	TextRegion string `json:"text_region"`

	// ICache and DCache enable the L1 caches when set.
	ICache *cache.Config `json:"icache,omitempty"`
	DCache *cache.Config `json:"dcache,omitempty"`

	// MaxCycles bounds a run to completion. Zero means unbounded.
	MaxCycles uint64 `json:"max_cycles"`

	// LegacyWriteback makes every recognized instruction except SYSCALL
	// write rd or rt at writeback.
	LegacyWriteback bool `json:"legacy_writeback"`
}

// Default returns the MU-MIPS memory map with no caches and no cycle limit.
func Default() *Config {
	return &Config{
		Regions:    emu.DefaultRegions(),
		TextRegion: DefaultTextRegion,
	}
}

// Load reads a Config from a JSON file. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the memory map and cache geometry.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one memory region is required")
	}

	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d has no name", i)
		}
		if r.Begin > r.End {
			return fmt.Errorf("region %q: begin 0x%08x is above end 0x%08x",
				r.Name, r.Begin, r.End)
		}
		for _, other := range c.Regions[:i] {
			if r.Name == other.Name {
				return fmt.Errorf("region %q is defined twice", r.Name)
			}
			if r.Overlaps(other) {
				return fmt.Errorf("%w: %q and %q", ErrOverlappingRegions, other.Name, r.Name)
			}
		}
	}

	if _, err := c.TextBase(); err != nil {
		return err
	}

	if c.ICache != nil {
		if err := c.ICache.Validate(); err != nil {
			return fmt.Errorf("icache: %w", err)
		}
	}
	if c.DCache != nil {
		if err := c.DCache.Validate(); err != nil {
			return fmt.Errorf("dcache: %w", err)
		}
	}

	return nil
}

// TextBase returns the base address of the text region.
func (c *Config) TextBase() (uint32, error) {
	for _, r := range c.Regions {
		if r.Name == c.TextRegion {
			return r.Begin, nil
		}
	}
	return 0, fmt.Errorf("text region %q not found", c.TextRegion)
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Regions = append([]emu.RegionConfig(nil), c.Regions...)
	if c.ICache != nil {
		icache := *c.ICache
		clone.ICache = &icache
	}
	if c.DCache != nil {
		dcache := *c.DCache
		clone.DCache = &dcache
	}
	return &clone
}
