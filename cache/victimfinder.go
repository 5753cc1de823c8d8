package cache

// A VictimFinder decides which way of a set should be evicted.
type VictimFinder interface {
	FindVictim(set *Set) (wayID int, ok bool)
}

// InsertionOrderVictimFinder evicts the block that was inserted earliest
// among the current residents of a set. Hits do not refresh a block's
// insertion stamp, so this is insertion-order (approximate FIFO) eviction,
// not LRU.
type InsertionOrderVictimFinder struct {
}

// NewInsertionOrderVictimFinder returns a newly constructed insertion-order
// evictor.
func NewInsertionOrderVictimFinder() *InsertionOrderVictimFinder {
	e := new(InsertionOrderVictimFinder)
	return e
}

// FindVictim returns an empty way if one exists, otherwise the way holding
// the earliest-inserted block.
func (e *InsertionOrderVictimFinder) FindVictim(set *Set) (wayID int, ok bool) {
	for _, block := range set.Blocks {
		if !block.IsValid {
			return block.WayID, true
		}
	}

	found := false
	earliest := uint64(0)

	for _, block := range set.Blocks {
		if !found || block.InsertedAt < earliest {
			found = true
			earliest = block.InsertedAt
			wayID = block.WayID
		}
	}

	return wayID, found
}
