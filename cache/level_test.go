package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/geometry"
)

// mustGeometry builds a small geometry for tests.
func mustGeometry(totalBytes, blockSize, ways uint64) geometry.Geometry {
	geom, err := geometry.Make(totalBytes, blockSize, ways, 32)
	Expect(err).ToNot(HaveOccurred())

	return geom
}

var _ = Describe("Level", func() {
	var level *Level

	Context("with a 2-way, 2-set level", func() {
		BeforeEach(func() {
			// 256B total, 64B blocks, 2 ways: 2 sets. Set 0 holds 0x000,
			// 0x080, 0x100, ...; set 1 holds 0x040, 0x0c0, ...
			level = NewLevel("L1", mustGeometry(256, 64, 2), 4)
		})

		It("should not contain anything at start", func() {
			Expect(level.Contains(0x00)).To(BeFalse())
			Expect(level.Contains(0x40)).To(BeFalse())
		})

		It("should contain a block after inserting it", func() {
			level.Insert(0x00)

			Expect(level.Contains(0x00)).To(BeTrue())
			Expect(level.Contains(0x3f)).To(BeTrue(),
				"any address in the block maps to the same residency")
			Expect(level.Contains(0x40)).To(BeFalse())
		})

		It("should not evict while the set has room", func() {
			_, didEvict := level.Insert(0x000)
			Expect(didEvict).To(BeFalse())

			_, didEvict = level.Insert(0x080)
			Expect(didEvict).To(BeFalse())

			Expect(level.Occupancy(0)).To(Equal(2))
		})

		It("should evict exactly one block when a set is at capacity", func() {
			level.Insert(0x000)
			level.Insert(0x080)

			evicted, didEvict := level.Insert(0x100)

			Expect(didEvict).To(BeTrue())
			Expect(evicted).To(Equal(uint64(0x000)))
			Expect(level.Occupancy(0)).To(Equal(2))
			Expect(level.Contains(0x000)).To(BeFalse())
			Expect(level.Contains(0x080)).To(BeTrue())
			Expect(level.Contains(0x100)).To(BeTrue())
		})

		It("should not let a hit protect a block from eviction", func() {
			level.Insert(0x000)
			level.Insert(0x080)

			// A lookup hit does not refresh insertion order, so 0x000 is
			// still the eviction candidate.
			Expect(level.Contains(0x000)).To(BeTrue())

			evicted, didEvict := level.Insert(0x100)
			Expect(didEvict).To(BeTrue())
			Expect(evicted).To(Equal(uint64(0x000)))
		})

		It("should treat re-inserting a resident block as a no-op", func() {
			level.Insert(0x000)

			_, didEvict := level.Insert(0x000)
			Expect(didEvict).To(BeFalse())
			Expect(level.Occupancy(0)).To(Equal(1))
		})

		It("should keep sets independent", func() {
			level.Insert(0x000)
			level.Insert(0x080)
			level.Insert(0x040)

			_, didEvict := level.Insert(0x0c0)
			Expect(didEvict).To(BeFalse())
			Expect(level.Occupancy(0)).To(Equal(2))
			Expect(level.Occupancy(1)).To(Equal(2))
		})

		It("should never exceed capacity", func() {
			for addr := uint64(0); addr < 0x1000; addr += 64 {
				level.Insert(addr)

				Expect(level.Occupancy(0)).To(BeNumerically("<=", 2))
				Expect(level.Occupancy(1)).To(BeNumerically("<=", 2))
			}
		})

		It("should be empty after a reset", func() {
			level.Insert(0x000)
			level.Insert(0x040)

			level.Reset()

			Expect(level.Contains(0x000)).To(BeFalse())
			Expect(level.Contains(0x040)).To(BeFalse())
			Expect(level.Occupancy(0)).To(Equal(0))
		})
	})

	Context("with a fully associative level", func() {
		BeforeEach(func() {
			// 4 blocks, one set.
			level = NewLevel("L1", mustGeometry(256, 64, geometry.FullyAssociative), 4)
		})

		It("should map every address to set 0", func() {
			level.Insert(0x000)
			level.Insert(0x040)
			level.Insert(0x080)
			level.Insert(0x0c0)

			Expect(level.Occupancy(0)).To(Equal(4))
		})

		It("should evict in insertion order across the whole level", func() {
			level.Insert(0x000)
			level.Insert(0x040)
			level.Insert(0x080)
			level.Insert(0x0c0)

			evicted, didEvict := level.Insert(0x100)
			Expect(didEvict).To(BeTrue())
			Expect(evicted).To(Equal(uint64(0x000)))
		})
	})
})
