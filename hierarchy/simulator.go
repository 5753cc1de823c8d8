// Package hierarchy simulates a sequence of memory accesses against a
// multi-level cache hierarchy, cascading each access through the tiers until
// one supplies the data.
package hierarchy

import (
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/geometry"
	"github.com/sarchlab/cachesim/metrics"
	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/workload"
)

// HitMemory is the Level value of an AccessResult satisfied by main memory.
const HitMemory = 0

// An AccessResult is the outcome of one simulated access. Level is the
// 1-based tier that supplied the data, or HitMemory. LatencyCycles is the
// latency of that one tier only, never a sum across the tiers checked.
type AccessResult struct {
	Access        workload.Access
	Level         int
	LevelName     string
	LatencyCycles uint32
}

// accessRow is the flat shape of one AccessResult in the recording backend.
type accessRow struct {
	SequenceID uint32
	Address    uint64
	Kind       string
	HitLevel   string
	Latency    uint32
}

const traceTableName = "access_trace"

// A Simulator owns the cache levels of one run. One access is fully
// resolved, including all promotion and backfill mutations, before the next
// is considered. A Simulator must not be shared between concurrent runs.
type Simulator struct {
	levels     []*cache.Level
	memLatency uint32
	addrWidth  int

	aggregator *metrics.Aggregator
	history    []AccessResult
	nextSeq    uint32

	recorder   recording.DataRecorder
	traceReady bool
}

// NewSimulator creates an unconfigured simulator. Configure must succeed
// before any access runs.
func NewSimulator() *Simulator {
	return &Simulator{
		aggregator: metrics.NewAggregator(nil),
		addrWidth:  geometry.DefaultAddressWidth,
	}
}

// Configure validates the hierarchy configuration and replaces all simulator
// state with fresh, empty levels. On error no state changes and the previous
// configuration, if any, stays in effect.
func (s *Simulator) Configure(cfg Config) error {
	enabled := cfg.EnabledLevels()

	levels := make([]*cache.Level, 0, len(enabled))
	names := make([]string, 0, len(enabled))

	for _, lc := range enabled {
		geom, err := lc.Geometry(cfg.AddressWidth)
		if err != nil {
			return err
		}

		levels = append(levels, cache.NewLevel(lc.Name, geom, lc.LatencyCycles))
		names = append(names, lc.Name)
	}

	s.levels = levels
	s.memLatency = cfg.MemoryLatencyCycles
	s.addrWidth = cfg.AddressWidth
	if s.addrWidth <= 0 {
		s.addrWidth = geometry.DefaultAddressWidth
	}

	s.aggregator = metrics.NewAggregator(names)
	s.history = nil
	s.nextSeq = 0

	if s.recorder != nil && !s.traceReady {
		s.recorder.CreateTable(traceTableName, accessRow{})
		s.traceReady = true
	}

	return nil
}

// AttachRecorder streams every AccessResult into a recording backend. Attach
// before Configure so the trace table is created on the next run.
func (s *Simulator) AttachRecorder(r recording.DataRecorder) {
	s.recorder = r
}

// Access runs one memory access through the hierarchy and records its
// outcome.
func (s *Simulator) Access(addr uint64, kind workload.AccessKind) AccessResult {
	access := workload.Access{
		Address:    addr,
		Kind:       kind,
		SequenceID: s.nextSeq,
	}
	s.nextSeq++

	return s.run(access)
}

// RunWorkload pulls up to count accesses from a generator and runs each one.
// The returned slice is the ordered results of this call only.
func (s *Simulator) RunWorkload(
	gen workload.Generator,
	count int,
) []AccessResult {
	results := make([]AccessResult, 0, count)

	for i := 0; i < count; i++ {
		access, ok := gen.Next()
		if !ok {
			break
		}

		access.SequenceID = s.nextSeq
		s.nextSeq++

		results = append(results, s.run(access))
	}

	return results
}

// run cascades one access through the enabled levels: peek each tier in
// order, promote into the faster tiers on a hit, backfill every tier on a
// terminal miss.
func (s *Simulator) run(access workload.Access) AccessResult {
	hitLevel := HitMemory
	latency := s.memLatency
	levelName := "Memory"

	for i, level := range s.levels {
		if level.Contains(access.Address) {
			hitLevel = i + 1
			latency = level.Latency()
			levelName = level.Name()

			break
		}
	}

	if hitLevel == HitMemory {
		// Terminal miss: the block becomes resident in every tier, each
		// subject to its own capacity and eviction.
		for _, level := range s.levels {
			level.Insert(access.Address)
		}
	} else {
		// Promotion: fill the faster tiers, which may evict there.
		for i := 0; i < hitLevel-1; i++ {
			s.levels[i].Insert(access.Address)
		}
	}

	result := AccessResult{
		Access:        access,
		Level:         hitLevel,
		LevelName:     levelName,
		LatencyCycles: latency,
	}

	s.history = append(s.history, result)
	s.aggregator.Record(hitLevel, latency)

	if s.recorder != nil {
		s.recorder.InsertData(traceTableName, accessRow{
			SequenceID: access.SequenceID,
			Address:    access.Address,
			Kind:       access.Kind.String(),
			HitLevel:   levelName,
			Latency:    latency,
		})
	}

	return result
}

// DecodeAddress splits an address using the geometry of the first enabled
// level. It depends only on configuration, not on any simulation state.
func (s *Simulator) DecodeAddress(addr uint64) geometry.Fields {
	if len(s.levels) == 0 {
		return geometry.Fields{Offset: addr}
	}

	return s.levels[0].Geometry().Decode(addr)
}

// Levels returns the enabled cache levels in hierarchy order.
func (s *Simulator) Levels() []*cache.Level {
	return s.levels
}

// History returns the ordered results of every access of the current run.
func (s *Simulator) History() []AccessResult {
	return s.history
}

// Snapshot returns the aggregate statistics of the current run.
func (s *Simulator) Snapshot() metrics.Snapshot {
	return s.aggregator.Snapshot()
}

// Reset clears every level and the metrics counters together. A partial
// reset, cache state without metrics or the reverse, would be an invariant
// violation, so both happen in this one call.
func (s *Simulator) Reset() {
	for _, level := range s.levels {
		level.Reset()
	}

	s.aggregator.Reset()
	s.history = nil
	s.nextSeq = 0
}
