package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/geometry"
)

var _ = Describe("TagArray", func() {
	var tags *tagArrayImpl

	BeforeEach(func() {
		// 256KB, 64B blocks, 4 ways: 1024 sets.
		geom, err := geometry.Make(256*1024, 64, 4, 32)
		Expect(err).ToNot(HaveOccurred())

		tags = NewTagArray(geom).(*tagArrayImpl)
	})

	It("should miss on an empty array", func() {
		block, found := tags.Lookup(0x100)

		Expect(found).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should find an updated block", func() {
		set, setID := tags.GetSet(0x100)

		tags.Update(Block{
			BlockAddr: 0x100,
			SetID:     setID,
			WayID:     0,
			IsValid:   true,
		})

		block, found := tags.Lookup(0x100)
		Expect(found).To(BeTrue())
		Expect(block.BlockAddr).To(Equal(uint64(0x100)))
		Expect(set.Blocks[0].IsValid).To(BeTrue())
	})

	It("should not find an invalid block", func() {
		_, setID := tags.GetSet(0x100)

		tags.Update(Block{
			BlockAddr: 0x100,
			SetID:     setID,
			WayID:     0,
			IsValid:   false,
		})

		_, found := tags.Lookup(0x100)
		Expect(found).To(BeFalse())
	})

	It("should stamp blocks in insertion order", func() {
		_, setID := tags.GetSet(0x100)

		tags.Update(Block{BlockAddr: 0x100, SetID: setID, WayID: 0, IsValid: true})
		tags.Update(Block{BlockAddr: 0x200, SetID: setID, WayID: 1, IsValid: true})

		first, _ := tags.Lookup(0x100)
		second, _ := tags.Lookup(0x200)
		Expect(first.InsertedAt).To(BeNumerically("<", second.InsertedAt))
	})

	It("should empty every set on reset", func() {
		_, setID := tags.GetSet(0x100)
		tags.Update(Block{BlockAddr: 0x100, SetID: setID, WayID: 0, IsValid: true})

		tags.Reset()

		_, found := tags.Lookup(0x100)
		Expect(found).To(BeFalse())
	})
})

var _ = Describe("InsertionOrderVictimFinder", func() {
	var finder *InsertionOrderVictimFinder

	BeforeEach(func() {
		finder = NewInsertionOrderVictimFinder()
	})

	It("should prefer an empty way", func() {
		set := &Set{Blocks: []Block{
			{WayID: 0, IsValid: true, InsertedAt: 1},
			{WayID: 1, IsValid: false},
		}}

		wayID, ok := finder.FindVictim(set)
		Expect(ok).To(BeTrue())
		Expect(wayID).To(Equal(1))
	})

	It("should evict the earliest-inserted block when the set is full", func() {
		set := &Set{Blocks: []Block{
			{WayID: 0, IsValid: true, InsertedAt: 7},
			{WayID: 1, IsValid: true, InsertedAt: 3},
			{WayID: 2, IsValid: true, InsertedAt: 9},
		}}

		wayID, ok := finder.FindVictim(set)
		Expect(ok).To(BeTrue())
		Expect(wayID).To(Equal(1))
	})

	It("should report no victim for an empty set", func() {
		set := &Set{}

		_, ok := finder.FindVictim(set)
		Expect(ok).To(BeFalse())
	})
})
