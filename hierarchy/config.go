package hierarchy

import (
	"github.com/sarchlab/cachesim/geometry"
)

// A LevelConfig describes one cache tier of the hierarchy.
type LevelConfig struct {
	Name          string
	SizeKB        uint64
	BlockSize     uint64
	Associativity uint64
	LatencyCycles uint32
	Enabled       bool
}

// Geometry derives the geometry of the level under the given address width.
func (c LevelConfig) Geometry(addressWidth int) (geometry.Geometry, error) {
	return geometry.Make(
		c.SizeKB*1024, c.BlockSize, c.Associativity, addressWidth)
}

// A Config describes a whole hierarchy: the ordered cache tiers plus the
// terminal memory latency. Enabling or disabling a level is a configuration
// event; applying a Config resets all simulator state.
type Config struct {
	Levels              []LevelConfig
	MemoryLatencyCycles uint32
	AddressWidth        int
}

// EnabledLevels returns the levels that participate in lookups, in order.
func (c Config) EnabledLevels() []LevelConfig {
	enabled := []LevelConfig{}
	for _, l := range c.Levels {
		if l.Enabled {
			enabled = append(enabled, l)
		}
	}

	return enabled
}

// DefaultConfig returns the three-tier hierarchy the course material starts
// from: 32KB/256KB/2MB with 64-byte blocks.
func DefaultConfig() Config {
	return Config{
		Levels: []LevelConfig{
			{
				Name:          "L1",
				SizeKB:        32,
				BlockSize:     64,
				Associativity: 4,
				LatencyCycles: 4,
				Enabled:       true,
			},
			{
				Name:          "L2",
				SizeKB:        256,
				BlockSize:     64,
				Associativity: 8,
				LatencyCycles: 12,
				Enabled:       true,
			},
			{
				Name:          "L3",
				SizeKB:        2048,
				BlockSize:     64,
				Associativity: 16,
				LatencyCycles: 40,
				Enabled:       true,
			},
		},
		MemoryLatencyCycles: 200,
		AddressWidth:        geometry.DefaultAddressWidth,
	}
}
