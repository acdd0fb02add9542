package targets

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSeeds_StreamsAreDistinctAndReproducible(t *testing.T) {
	s := NewSeeds(42)
	a, b, c := s.Framework().Uint64(), s.Array().Uint64(), s.General().Uint64()
	if a == b || b == c || a == c {
		t.Errorf("Expected distinct streams for one seed, got %d %d %d", a, b, c)
	}

	again := NewSeeds(42)
	if got := again.Framework().Uint64(); got != a {
		t.Errorf("Expected framework stream to repeat %d, got %d", a, got)
	}
	if got := again.Array().Uint64(); got != b {
		t.Errorf("Expected array stream to repeat %d, got %d", b, got)
	}
	if got := again.General().Uint64(); got != c {
		t.Errorf("Expected general stream to repeat %d, got %d", c, got)
	}
}

func TestSeeds_SamplingIndependentOfParameters(t *testing.T) {
	// The component of the first sample must not depend on the drawn locations.
	var lowHits, lowTotal, highHits, highTotal int
	for seed := range int64(4000) {
		dist, err := MixNormal2(2, 1, seed)
		if err != nil {
			t.Fatal(err)
		}
		loc := dist.Params().Loc
		loc0, loc1 := loc.At(0, 0), loc.At(1, 0)
		if math.Abs(loc0-loc1) < 6 {
			continue // components overlap, nearest location is ambiguous
		}
		x := dist.Sample(1).At(0, 0)
		fromFirst := math.Abs(x-loc0) < math.Abs(x-loc1)

		switch u := loc0 / locationMax; {
		case u < 0.3:
			lowTotal++
			if fromFirst {
				lowHits++
			}
		case u > 0.7:
			highTotal++
			if fromFirst {
				highHits++
			}
		}
	}
	if lowTotal < 100 || highTotal < 100 {
		t.Fatalf("Expected enough separated seeds, got %d and %d", lowTotal, highTotal)
	}
	low := float64(lowHits) / float64(lowTotal)
	high := float64(highHits) / float64(highTotal)
	if math.Abs(low-high) > 0.2 {
		t.Errorf("Expected component choice independent of locations, got %.3f vs %.3f", low, high)
	}
}

func TestSeeds_Reset(t *testing.T) {
	s := NewSeeds(7)
	first := s.Array().Float64()
	s.Array().Float64()
	s.Reset()
	if got := s.Array().Float64(); got != first {
		t.Errorf("Expected %f after reset, got %f", first, got)
	}
}

func TestSeeds_IsolatedContexts(t *testing.T) {
	a := NewSeeds(3)
	b := NewSeeds(3)
	a.Array().Float64() // advancing one context must not affect the other
	fresh := NewSeeds(3).Array().Float64()
	if got := b.Array().Float64(); got != fresh {
		t.Errorf("Expected %f from untouched context, got %f", fresh, got)
	}
}

func TestSubsample(t *testing.T) {
	x := mat.NewDense(6, 2, []float64{0, 0, 1, 10, 2, 20, 3, 30, 4, 40, 5, 50})

	sub := Subsample(x, 3, 9)
	if r, c := sub.Dims(); r != 3 || c != 2 {
		t.Fatalf("Expected 3x2 subsample, got %dx%d", r, c)
	}
	prev := -1.0
	for i := range 3 {
		v := sub.At(i, 0)
		if v <= prev {
			t.Errorf("Expected distinct rows in original order, got %v after %v", v, prev)
		}
		if sub.At(i, 1) != 10*v {
			t.Errorf("Expected row %v to stay intact, got %v", v, sub.At(i, 1))
		}
		prev = v
	}

	if !mat.Equal(sub, Subsample(x, 3, 9)) {
		t.Error("Expected identical subsample for the same seed")
	}
	if !mat.Equal(Subsample(x, 10, 9), x) {
		t.Error("Expected all rows when n exceeds the row count")
	}
	if !Subsample(x, 0, 9).IsEmpty() {
		t.Error("Expected empty subsample for n=0")
	}
}
