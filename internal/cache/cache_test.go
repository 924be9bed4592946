package cache

import (
	"math"
	"os"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mkravets/sdeconv/internal/montecarlo"
)

func testKey() Key {
	return Key{
		Scenario: "decay-x1",
		X0:       []float64{1.0},
		Eps:      0.01,
		N:        3,
		Dim:      2,
		Dt:       1e-4,
	}
}

// testBatch fills a (2)×(3) batch with values that stress exact float
// round-tripping.
func testBatch() *montecarlo.Batch {
	b := montecarlo.NewBatch(2, 3)
	vals := [][]float64{
		{0.1 + 0.2, -1e-17},
		{math.Pi, 2.718281828459045},
		{-0.0, 1.0000000000000002},
	}
	for j, col := range vals {
		copy(b.Col(j), col)
	}
	return b
}

var _ = ginkgo.Describe("GetOrCompute", func() {
	var (
		store *MemStore
		calls int
		gen   func() (*montecarlo.Batch, error)
	)

	ginkgo.BeforeEach(func() {
		store = NewMemStore()
		calls = 0
		gen = func() (*montecarlo.Batch, error) {
			calls++
			return testBatch(), nil
		}
	})

	ginkgo.Context("with reload and persist enabled", func() {
		ginkgo.It("computes once and reloads bit-identically", func() {
			c := New(store, true, true)

			first, err := c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(1))

			second, err := c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(1), "compute_fn must not run again")

			for j := 0; j < first.N(); j++ {
				Expect(second.Col(j)).To(Equal(first.Col(j)))
			}
		})

		ginkgo.It("keys entries by every simulation parameter", func() {
			c := New(store, true, true)

			_, err := c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())

			other := testKey()
			other.Eps = 0.1
			_, err = c.GetOrCompute(other, gen)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(2))
			Expect(store.Len()).To(Equal(2))
		})
	})

	ginkgo.Context("with reload disabled", func() {
		ginkgo.It("regenerates on every call", func() {
			c := New(store, false, true)

			_, err := c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(2))
		})
	})

	ginkgo.Context("with persist disabled", func() {
		ginkgo.It("does not write to the store", func() {
			c := New(store, true, false)

			_, err := c.GetOrCompute(testKey(), gen)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Len()).To(BeZero())
		})
	})

	ginkgo.Context("with an inconsistent stored entry", func() {
		ginkgo.It("rejects a parameter mismatch instead of returning it", func() {
			key := testKey()
			staleMeta := key.Meta()
			staleMeta.N = 999
			Expect(store.Save(key.String(), &Entry{Meta: staleMeta, Batch: testBatch()})).To(Succeed())

			c := New(store, true, true)
			_, err := c.GetOrCompute(key, gen)
			Expect(err).To(HaveOccurred())
			Expect(calls).To(BeZero(), "must not silently regenerate")
		})

		ginkgo.It("rejects a shape mismatch instead of reshaping", func() {
			key := testKey()
			wrong := montecarlo.NewBatch(2, 2) // N=2, key says 3
			Expect(store.Save(key.String(), &Entry{Meta: key.Meta(), Batch: wrong})).To(Succeed())

			c := New(store, true, true)
			_, err := c.GetOrCompute(key, gen)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("shape"))
		})
	})
})

var _ = ginkgo.Describe("FSStore", func() {
	var (
		dir   string
		store *FSStore
	)

	ginkgo.BeforeEach(func() {
		dir = ginkgo.GinkgoT().TempDir()
		store = NewFSStore(dir)
		Expect(store.Init()).To(Succeed())
	})

	ginkgo.It("reports absent keys without error", func() {
		_, ok, err := store.Load("missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	ginkgo.It("round-trips a batch bit-identically", func() {
		key := testKey()
		saved := testBatch()
		Expect(store.Save(key.String(), &Entry{Meta: key.Meta(), Batch: saved})).To(Succeed())

		entry, ok, err := store.Load(key.String())
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(entry.Meta.Matches(key)).To(BeTrue())

		for j := 0; j < saved.N(); j++ {
			Expect(entry.Batch.Col(j)).To(Equal(saved.Col(j)))
		}
	})

	ginkgo.It("persists entries as durable files", func() {
		key := testKey()
		Expect(store.Save(key.String(), &Entry{Meta: key.Meta(), Batch: testBatch()})).To(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2)) // <key>.json and <key>.csv
	})

	ginkgo.It("surfaces a corrupt payload as an error", func() {
		key := testKey()
		Expect(store.Save(key.String(), &Entry{Meta: key.Meta(), Batch: testBatch()})).To(Succeed())
		Expect(os.WriteFile(store.dataPath(key.String()), []byte("not,a\nnumber,row\n"), 0644)).To(Succeed())

		_, _, err := store.Load(key.String())
		Expect(err).To(HaveOccurred())
	})
})

var _ = ginkgo.Describe("Key", func() {
	ginkgo.It("renders deterministically", func() {
		Expect(testKey().String()).To(Equal(testKey().String()))
		Expect(testKey().String()).To(ContainSubstring("eps=0.01"))
		Expect(testKey().String()).To(ContainSubstring("N=3"))
		Expect(testKey().String()).To(ContainSubstring("dt=0.0001"))
	})

	ginkgo.It("distinguishes any changed parameter", func() {
		base := testKey().String()

		k := testKey()
		k.Dt = 1e-3
		Expect(k.String()).NotTo(Equal(base))

		k = testKey()
		k.X0 = []float64{2.0}
		Expect(k.String()).NotTo(Equal(base))
	})
})
