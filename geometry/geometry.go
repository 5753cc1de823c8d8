// Package geometry derives the tag, set-index, and block-offset partition of
// memory addresses from a cache configuration.
package geometry

import (
	"math/bits"
)

// DefaultAddressWidth is the address width used when a configuration does not
// specify one.
const DefaultAddressWidth = 32

// FullyAssociative can be passed as the associativity to request a single-set
// cache regardless of the block count.
const FullyAssociative = 0

// A Geometry holds the derived constants of one cache: how many sets it has
// and how an address splits into offset, set-index, and tag fields. It is
// immutable after Make returns it.
type Geometry struct {
	TotalBytes    uint64
	BlockSize     uint64
	Associativity uint64
	AddressWidth  int

	NumBlocks    uint64
	NumSets      uint64
	OffsetBits   int
	SetIndexBits int
	TagBits      int
}

// Fields is the partition of one address under a Geometry.
type Fields struct {
	Tag      uint64
	SetIndex uint64
	Offset   uint64
}

// Make validates a cache configuration and derives its geometry. An
// associativity of FullyAssociative, or one at least as large as the block
// count, yields a single set with SetIndexBits == 0.
func Make(
	totalBytes, blockSize, associativity uint64,
	addressWidth int,
) (Geometry, error) {
	if addressWidth <= 0 {
		addressWidth = DefaultAddressWidth
	}

	if !isPowerOfTwo(blockSize) {
		return Geometry{}, NotPowerOfTwoError{Field: "block size", Value: blockSize}
	}

	if !isPowerOfTwo(totalBytes) {
		return Geometry{}, NotPowerOfTwoError{Field: "total size", Value: totalBytes}
	}

	if totalBytes < blockSize {
		return Geometry{}, AddressWidthError{
			TotalBytes:   totalBytes,
			BlockSize:    blockSize,
			AddressWidth: addressWidth,
		}
	}

	numBlocks := totalBytes / blockSize
	if associativity == FullyAssociative || associativity >= numBlocks {
		associativity = numBlocks
	}

	if !isPowerOfTwo(associativity) {
		return Geometry{}, NotPowerOfTwoError{
			Field: "associativity",
			Value: associativity,
		}
	}

	numSets := numBlocks / associativity
	offsetBits := log2(blockSize)
	setIndexBits := log2(numSets)

	if offsetBits+setIndexBits > addressWidth {
		return Geometry{}, AddressWidthError{
			TotalBytes:   totalBytes,
			BlockSize:    blockSize,
			AddressWidth: addressWidth,
		}
	}

	g := Geometry{
		TotalBytes:    totalBytes,
		BlockSize:     blockSize,
		Associativity: associativity,
		AddressWidth:  addressWidth,
		NumBlocks:     numBlocks,
		NumSets:       numSets,
		OffsetBits:    offsetBits,
		SetIndexBits:  setIndexBits,
		TagBits:       addressWidth - setIndexBits - offsetBits,
	}

	return g, nil
}

// Decode splits an address into its tag, set-index, and offset fields.
func (g Geometry) Decode(addr uint64) Fields {
	addr &= g.addressMask()

	return Fields{
		Offset:   addr & (g.BlockSize - 1),
		SetIndex: (addr >> g.OffsetBits) & (g.NumSets - 1),
		Tag:      addr >> (g.OffsetBits + g.SetIndexBits),
	}
}

// Reassemble is the inverse of Decode. It rebuilds the address that the
// fields were decoded from.
func (g Geometry) Reassemble(f Fields) uint64 {
	return f.Tag<<(g.OffsetBits+g.SetIndexBits) |
		f.SetIndex<<g.OffsetBits |
		f.Offset
}

// BlockAddress aligns an address down to the start of its cache block.
func (g Geometry) BlockAddress(addr uint64) uint64 {
	return addr & g.addressMask() &^ (g.BlockSize - 1)
}

// SetIndex returns the set an address maps to.
func (g Geometry) SetIndex(addr uint64) uint64 {
	return g.Decode(addr).SetIndex
}

func (g Geometry) addressMask() uint64 {
	if g.AddressWidth >= 64 {
		return ^uint64(0)
	}

	return 1<<g.AddressWidth - 1
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

func log2(v uint64) int {
	return bits.TrailingZeros64(v)
}
