// Package workload produces address sequences for driving a cache hierarchy
// simulation.
package workload

import (
	"math/rand"
)

// AccessKind tells whether an access reads or writes.
type AccessKind int

// The kinds of memory accesses.
const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	if k == Write {
		return "Write"
	}

	return "Read"
}

// An Access is one memory access to simulate. It is produced once and never
// mutated.
type Access struct {
	Address    uint64
	Kind       AccessKind
	SequenceID uint32
}

// A Generator lazily produces a finite sequence of accesses. Next returns
// false when the sequence is exhausted. Generators are not restartable;
// re-create one with the same parameters to replay a sequence.
type Generator interface {
	Next() (Access, bool)
}

// Sequential generates count accesses at consecutive word addresses starting
// from base.
func Sequential(base, wordSize uint64, count int) Generator {
	return &sequentialGenerator{
		base:     base,
		wordSize: wordSize,
		count:    count,
	}
}

type sequentialGenerator struct {
	base     uint64
	wordSize uint64
	count    int
	issued   int
}

func (g *sequentialGenerator) Next() (Access, bool) {
	if g.issued >= g.count {
		return Access{}, false
	}

	access := Access{
		Address:    g.base + uint64(g.issued)*g.wordSize,
		Kind:       Read,
		SequenceID: uint32(g.issued),
	}
	g.issued++

	return access, true
}

// Strided generates count accesses separated by a fixed stride.
func Strided(base, stride uint64, count int) Generator {
	return &sequentialGenerator{
		base:     base,
		wordSize: stride,
		count:    count,
	}
}

// Random generates count accesses drawn uniformly from [base, base+span),
// each a Write with probability writeProb. The sequence is fully determined
// by the seed.
func Random(
	base, span uint64,
	writeProb float64,
	count int,
	seed int64,
) Generator {
	return &randomGenerator{
		base:      base,
		span:      span,
		writeProb: writeProb,
		count:     count,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

type randomGenerator struct {
	base      uint64
	span      uint64
	writeProb float64
	count     int
	issued    int
	rand      *rand.Rand
}

func (g *randomGenerator) Next() (Access, bool) {
	if g.issued >= g.count {
		return Access{}, false
	}

	access := Access{
		Address:    g.base + uint64(g.rand.Int63n(int64(g.span))),
		Kind:       Read,
		SequenceID: uint32(g.issued),
	}

	if g.rand.Float64() < g.writeProb {
		access.Kind = Write
	}

	g.issued++

	return access, true
}

// HotSet cycles through a small fixed address list, modeling temporal
// locality.
func HotSet(addrs []uint64, count int) Generator {
	return &hotSetGenerator{
		addrs: append([]uint64{}, addrs...),
		count: count,
	}
}

type hotSetGenerator struct {
	addrs  []uint64
	count  int
	issued int
}

func (g *hotSetGenerator) Next() (Access, bool) {
	if g.issued >= g.count || len(g.addrs) == 0 {
		return Access{}, false
	}

	access := Access{
		Address:    g.addrs[g.issued%len(g.addrs)],
		Kind:       Read,
		SequenceID: uint32(g.issued),
	}
	g.issued++

	return access, true
}
