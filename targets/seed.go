package targets

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

/**
* Seeds is an explicit seeding context. It owns three independent streams,
* all seeded from the same integer:
*   - framework: drives sampling from constructed distributions
*   - array:     drives parameter arrays (locations, scales, weights)
*   - general:   free for callers (shuffles, subset selection)
* A Seeds value is not safe for concurrent use.
 */
type Seeds struct {
	seed      int64
	framework *rand.Rand
	array     *rand.Rand
	general   *rand.Rand
}

func NewSeeds(seed int64) *Seeds {
	s := &Seeds{seed: seed}
	s.Reset()
	return s
}

// Reset rewinds every stream to the initial seed.
func (s *Seeds) Reset() {
	s.framework = newStream(s.seed, frameworkStream)
	s.array = newStream(s.seed, arrayStream)
	s.general = newStream(s.seed, generalStream)
}

func (s *Seeds) Seed() int64 { return s.seed }

func (s *Seeds) Framework() *rand.Rand { return s.framework }

func (s *Seeds) Array() *rand.Rand { return s.array }

func (s *Seeds) General() *rand.Rand { return s.general }

// PCG stream selectors; distinct values give uncorrelated sequences for one seed.
const (
	frameworkStream uint64 = iota + 1
	arrayStream
	generalStream
)

func newStream(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// Subsample returns n rows of x chosen without replacement by the general
// stream of seed, in their original order. All rows are returned when n is
// at least the row count.
func Subsample(x mat.Matrix, n int, seed int64) *mat.Dense {
	rows, cols := x.Dims()
	if n >= rows {
		return mat.DenseCopyOf(x)
	}
	if n <= 0 {
		return &mat.Dense{}
	}
	picked := NewSeeds(seed).General().Perm(rows)[:n]
	sort.Ints(picked)

	out := mat.NewDense(n, cols, nil)
	for i, r := range picked {
		for j := range cols {
			out.Set(i, j, x.At(r, j))
		}
	}
	return out
}
