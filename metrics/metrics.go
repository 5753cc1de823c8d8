// Package metrics accumulates per-level hit and miss counts and latencies
// into summary statistics.
package metrics

// LevelStats is the summary for one cache level.
type LevelStats struct {
	Name    string
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// A Snapshot is the aggregate view of a run at one point in time.
type Snapshot struct {
	Levels             []LevelStats
	MemoryAccesses     uint64
	TotalAccesses      uint64
	OverallHitRate     float64
	AverageLatency     float64
	TotalLatencyCycles uint64
}

// An Aggregator consumes access outcomes in order and maintains running
// counters. Level numbers are 1-based; level 0 is main memory.
type Aggregator struct {
	levelNames []string

	hits              []uint64
	misses            []uint64
	memoryAccesses    uint64
	totalAccesses     uint64
	cumulativeLatency uint64
}

// NewAggregator creates an aggregator for the named levels, in hierarchy
// order.
func NewAggregator(levelNames []string) *Aggregator {
	return &Aggregator{
		levelNames: append([]string{}, levelNames...),
		hits:       make([]uint64, len(levelNames)),
		misses:     make([]uint64, len(levelNames)),
	}
}

// Record accounts one access that was satisfied at hitLevel (1-based, 0 for
// main memory) with the given latency. Every level shallower than hitLevel
// is counted as a miss.
func (a *Aggregator) Record(hitLevel int, latencyCycles uint32) {
	a.totalAccesses++
	a.cumulativeLatency += uint64(latencyCycles)

	if hitLevel == 0 {
		a.memoryAccesses++
		for i := range a.misses {
			a.misses[i]++
		}

		return
	}

	a.hits[hitLevel-1]++
	for i := 0; i < hitLevel-1; i++ {
		a.misses[i]++
	}
}

// HitRate returns the fraction of all accesses satisfied at the given
// 1-based level. A zero-access aggregate reports 0.
func (a *Aggregator) HitRate(level int) float64 {
	if a.totalAccesses == 0 {
		return 0
	}

	return float64(a.hits[level-1]) / float64(a.totalAccesses)
}

// OverallHitRate returns the fraction of accesses satisfied by any cache
// level. Accesses that fall through to memory are excluded from the
// numerator.
func (a *Aggregator) OverallHitRate() float64 {
	if a.totalAccesses == 0 {
		return 0
	}

	hits := uint64(0)
	for _, h := range a.hits {
		hits += h
	}

	return float64(hits) / float64(a.totalAccesses)
}

// AverageLatency returns the mean latency per access in cycles, 0 when no
// access has been recorded.
func (a *Aggregator) AverageLatency() float64 {
	if a.totalAccesses == 0 {
		return 0
	}

	return float64(a.cumulativeLatency) / float64(a.totalAccesses)
}

// TotalLatency returns the cumulative latency of all accesses in cycles.
func (a *Aggregator) TotalLatency() uint64 {
	return a.cumulativeLatency
}

// Accesses returns the number of accesses recorded so far.
func (a *Aggregator) Accesses() uint64 {
	return a.totalAccesses
}

// Reset clears all counters.
func (a *Aggregator) Reset() {
	a.hits = make([]uint64, len(a.levelNames))
	a.misses = make([]uint64, len(a.levelNames))
	a.memoryAccesses = 0
	a.totalAccesses = 0
	a.cumulativeLatency = 0
}

// Snapshot returns a copy of the current aggregate state.
func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		MemoryAccesses:     a.memoryAccesses,
		TotalAccesses:      a.totalAccesses,
		OverallHitRate:     a.OverallHitRate(),
		AverageLatency:     a.AverageLatency(),
		TotalLatencyCycles: a.cumulativeLatency,
	}

	for i, name := range a.levelNames {
		s.Levels = append(s.Levels, LevelStats{
			Name:    name,
			Hits:    a.hits[i],
			Misses:  a.misses[i],
			HitRate: a.HitRate(i + 1),
		})
	}

	return s
}
