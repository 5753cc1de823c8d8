package cache

import (
	"github.com/sarchlab/cachesim/geometry"
)

// A Level is one tier of a cache hierarchy. It stores block addresses in a
// set-associative tag array and answers in a fixed number of cycles.
type Level struct {
	name          string
	geometry      geometry.Geometry
	latencyCycles uint32

	tags         TagArray
	victimFinder VictimFinder
}

// NewLevel creates a cache level from a validated geometry.
func NewLevel(name string, geom geometry.Geometry, latencyCycles uint32) *Level {
	return &Level{
		name:          name,
		geometry:      geom,
		latencyCycles: latencyCycles,
		tags:          NewTagArray(geom),
		victimFinder:  NewInsertionOrderVictimFinder(),
	}
}

// Name returns the name of the level.
func (l *Level) Name() string {
	return l.name
}

// Geometry returns the geometry of the level.
func (l *Level) Geometry() geometry.Geometry {
	return l.geometry
}

// Latency returns the access latency of the level in cycles.
func (l *Level) Latency() uint32 {
	return l.latencyCycles
}

// Contains reports whether the block holding addr is resident. It never
// mutates the level, and it does not refresh the block's insertion stamp.
func (l *Level) Contains(addr uint64) bool {
	blockAddr := l.geometry.BlockAddress(addr)
	_, found := l.tags.Lookup(blockAddr)

	return found
}

// Insert makes the block holding addr resident. When the set is at capacity
// it first evicts exactly one resident block, the earliest inserted, and
// returns its address. Inserting an already-resident block is a no-op.
func (l *Level) Insert(addr uint64) (evicted uint64, didEvict bool) {
	blockAddr := l.geometry.BlockAddress(addr)

	if _, found := l.tags.Lookup(blockAddr); found {
		return 0, false
	}

	set, setID := l.tags.GetSet(blockAddr)

	wayID, ok := l.victimFinder.FindVictim(set)
	if !ok {
		panic("set has no evictable way, capacity must be at least one block")
	}

	victim := set.Blocks[wayID]
	if victim.IsValid {
		evicted = victim.BlockAddr
		didEvict = true
	}

	l.tags.Update(Block{
		BlockAddr: blockAddr,
		SetID:     setID,
		WayID:     wayID,
		IsValid:   true,
	})

	return evicted, didEvict
}

// Occupancy returns the number of valid blocks in a set.
func (l *Level) Occupancy(setID int) int {
	set := l.setByID(setID)

	count := 0
	for _, block := range set.Blocks {
		if block.IsValid {
			count++
		}
	}

	return count
}

// ResidentBlocks returns the addresses of the valid blocks in a set.
func (l *Level) ResidentBlocks(setID int) []uint64 {
	set := l.setByID(setID)

	addrs := []uint64{}
	for _, block := range set.Blocks {
		if block.IsValid {
			addrs = append(addrs, block.BlockAddr)
		}
	}

	return addrs
}

// Reset empties every set of the level.
func (l *Level) Reset() {
	l.tags.Reset()
}

func (l *Level) setByID(setID int) *Set {
	// Any in-set address works for GetSet; rebuild one from the set index.
	addr := uint64(setID) << l.geometry.OffsetBits
	set, _ := l.tags.GetSet(addr)

	return set
}
