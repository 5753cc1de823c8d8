// Package cache implements one set-associative level of a cache hierarchy.
package cache

import (
	"github.com/sarchlab/cachesim/geometry"
)

// A TagArray tracks which block addresses are resident in a cache level.
type TagArray interface {
	Lookup(blockAddr uint64) (Block, bool)
	Update(block Block)
	GetSet(blockAddr uint64) (set *Set, setID int)
	Reset()
}

// NewTagArray creates a tag array with one set per geometry set, each holding
// one way per associativity.
func NewTagArray(geom geometry.Geometry) TagArray {
	t := &tagArrayImpl{
		Geometry: geom,
		Sets:     []Set{},
	}

	t.Reset()

	return t
}

// A Block is the information associated with one way of one set.
type Block struct {
	BlockAddr  uint64
	SetID      int
	WayID      int
	InsertedAt uint64
	IsValid    bool
}

// A Set is the list of ways where a certain piece of memory can be stored.
type Set struct {
	Blocks []Block
}

type tagArrayImpl struct {
	Geometry geometry.Geometry
	Sets     []Set

	insertCount uint64
}

// GetSet returns the set that an address maps to.
func (t *tagArrayImpl) GetSet(blockAddr uint64) (set *Set, setID int) {
	setID = int(t.Geometry.SetIndex(blockAddr))
	set = &t.Sets[setID]

	return
}

// Lookup finds the block holding blockAddr. It returns false when the address
// is not resident.
func (t *tagArrayImpl) Lookup(blockAddr uint64) (Block, bool) {
	set, _ := t.GetSet(blockAddr)
	for _, block := range set.Blocks {
		if block.IsValid && block.BlockAddr == blockAddr {
			return block, true
		}
	}

	return Block{}, false
}

// Update writes the block back into its set and way, stamping it with the
// next insertion counter value when it is being made valid.
func (t *tagArrayImpl) Update(block Block) {
	if block.IsValid {
		t.insertCount++
		block.InsertedAt = t.insertCount
	}

	t.Sets[block.SetID].Blocks[block.WayID] = block
}

// Reset marks every block in the array invalid.
func (t *tagArrayImpl) Reset() {
	numSets := int(t.Geometry.NumSets)
	numWays := int(t.Geometry.Associativity)

	t.insertCount = 0
	t.Sets = make([]Set, numSets)

	for i := 0; i < numSets; i++ {
		for j := 0; j < numWays; j++ {
			block := Block{
				IsValid: false,
				SetID:   i,
				WayID:   j,
			}

			t.Sets[i].Blocks = append(t.Sets[i].Blocks, block)
		}
	}
}
