package targets

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNew_SampleDimensionality(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			dist, err := New(v, Config{Components: 3, Dimensions: 5, Seed: 7})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			samples := dist.Sample(20)
			rows, cols := samples.Dims()
			if rows != 20 || cols != 5 {
				t.Errorf("Expected 20x5 samples, got %dx%d", rows, cols)
			}
			if dist.Dim() != 5 {
				t.Errorf("Expected Dim 5, got %d", dist.Dim())
			}
		})
	}
}

func TestNew_LogProbFiniteForOwnSamples(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			dist, err := New(v, DefaultConfig())
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			samples := dist.Sample(50)
			for i := range 50 {
				for _, lp := range dist.LogProb(samples.RawRowView(i)) {
					if math.IsNaN(lp) || math.IsInf(lp, 0) {
						t.Fatalf("Expected finite log density for sample %d, got %f", i, lp)
					}
				}
			}
		})
	}
}

func TestNew_IdenticalParametersForSameSeed(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a, err := New(v, Config{Components: 4, Dimensions: 3, Seed: 11})
			if err != nil {
				t.Fatal(err)
			}
			b, err := New(v, Config{Components: 4, Dimensions: 3, Seed: 11})
			if err != nil {
				t.Fatal(err)
			}
			pa, pb := a.Params(), b.Params()
			if !mat.Equal(pa.Loc, pb.Loc) {
				t.Error("Expected identical locations")
			}
			if !mat.Equal(pa.Scale, pb.Scale) {
				t.Error("Expected identical scales")
			}
			if !mat.Equal(pa.Weights, pb.Weights) {
				t.Error("Expected identical weights")
			}
		})
	}
}

func TestNew_DifferentSeedsDifferentParameters(t *testing.T) {
	a, _ := MixNormal2(3, 4, 0)
	b, _ := MixNormal2(3, 4, 1)
	if mat.Equal(a.Params().Loc, b.Params().Loc) {
		t.Error("Expected different locations for different seeds")
	}
}

func TestNew_ParameterRangesAndShapes(t *testing.T) {
	perDim, _ := MixNormal1(3, 4, 0)
	shared, _ := MixMultiNormal2(3, 4, 0)

	p := perDim.Params()
	if r, c := p.Loc.Dims(); r != 3 || c != 4 {
		t.Errorf("Expected 3x4 locations, got %dx%d", r, c)
	}
	if r, c := p.Weights.Dims(); r != 4 || c != 3 {
		t.Errorf("Expected 4x3 per-dimension weights, got %dx%d", r, c)
	}
	if r, c := shared.Params().Weights.Dims(); r != 1 || c != 3 {
		t.Errorf("Expected 1x3 shared weights, got %dx%d", r, c)
	}

	for i := range 3 {
		for j := range 4 {
			if l := p.Loc.At(i, j); l < 0 || l >= 10 {
				t.Errorf("Expected location in [0,10), got %f", l)
			}
			if s := p.Scale.At(i, j); s <= 0 || s >= 1 {
				t.Errorf("Expected scale in (0,1), got %f", s)
			}
		}
	}
}

func TestIndependent_SamplesMatchBase(t *testing.T) {
	pairs := []struct {
		name  string
		base  func(int, int, int64) (Distribution, error)
		indep func(int, int, int64) (Distribution, error)
	}{
		{"MixNormal1", MixNormal1, MixNormal1Indep},
		{"MixNormal2", MixNormal2, MixNormal2Indep},
		{"MixMultiNormal1", MixMultiNormal1, MixMultiNormal1Indep},
		{"MixMultiNormal2", MixMultiNormal2, MixMultiNormal2Indep},
	}

	for _, pair := range pairs {
		t.Run(pair.name, func(t *testing.T) {
			base, err := pair.base(3, 4, 5)
			if err != nil {
				t.Fatal(err)
			}
			indep, err := pair.indep(3, 4, 5)
			if err != nil {
				t.Fatal(err)
			}
			if !mat.Equal(base.Sample(100), indep.Sample(100)) {
				t.Error("Expected independent wrapping to leave samples unchanged")
			}
			x := base.Sample(1).RawRowView(0)
			lb, li := base.LogProb(x), indep.LogProb(x)
			if len(lb) != len(li) {
				t.Fatalf("Expected %d log densities, got %d", len(lb), len(li))
			}
			for i := range lb {
				if lb[i] != li[i] {
					t.Errorf("Expected log density %f, got %f", lb[i], li[i])
				}
			}
		})
	}
}

func TestIndependent_Shapes(t *testing.T) {
	perDim, _ := MixNormal1(3, 4, 0)
	if got := perDim.BatchShape(); len(got) != 1 || got[0] != 4 {
		t.Errorf("Expected batch shape [4], got %v", got)
	}
	if got := perDim.EventShape(); len(got) != 0 {
		t.Errorf("Expected scalar event shape, got %v", got)
	}

	wrapped, err := NewIndependent(perDim, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := wrapped.BatchShape(); len(got) != 0 {
		t.Errorf("Expected empty batch shape, got %v", got)
	}
	if got := wrapped.EventShape(); len(got) != 1 || got[0] != 4 {
		t.Errorf("Expected event shape [4], got %v", got)
	}

	x := []float64{1, 2, 3, 4}
	perDimLp := perDim.LogProb(x)
	var sum float64
	for _, v := range perDimLp {
		sum += v
	}
	lp := wrapped.LogProb(x)
	if len(lp) != 1 || math.Abs(lp[0]-sum) > 1e-12 {
		t.Errorf("Expected summed log density %f, got %v", sum, lp)
	}

	if _, err := NewIndependent(perDim, 2); !errors.Is(err, ErrDimMismatch) {
		t.Errorf("Expected ErrDimMismatch, got %v", err)
	}
}

func TestMixture_LogProbMatchesSingleComponent(t *testing.T) {
	// With one component the mixture density is the component density.
	dist, err := MixMultiNormal1(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	p := dist.Params()
	x := []float64{5, 5}
	var expected float64
	for j := range 2 {
		mu, sigma := p.Loc.At(0, j), p.Scale.At(0, j)
		z := (x[j] - mu) / sigma
		expected += -0.5*z*z - math.Log(sigma) - 0.5*math.Log(2*math.Pi)
	}
	got := dist.LogProb(x)[0]
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected log density %f, got %f", expected, got)
	}

	same, _ := MixMultiNormal2(1, 2, 3)
	if got := same.LogProb(x)[0]; math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected same-family log density %f, got %f", expected, got)
	}
}

func TestMixture_SampleMeanMatchesWeightedLocations(t *testing.T) {
	dist, err := MixNormal2(3, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	p := dist.Params()
	w := mat.Row(nil, 0, p.Weights)
	var total float64
	for _, v := range w {
		total += v
	}

	n := 20000
	samples := dist.Sample(n)
	for j := range 2 {
		var expected float64
		for k := range 3 {
			expected += w[k] / total * p.Loc.At(k, j)
		}
		var mean float64
		for i := range n {
			mean += samples.At(i, j)
		}
		mean /= float64(n)
		if math.Abs(mean-expected) > 0.15 {
			t.Errorf("Expected mean of dimension %d near %f, got %f", j, expected, mean)
		}
	}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := MixNormal1(0, 4, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize for zero components, got %v", err)
	}
	if _, err := MixMultiNormal1(3, 0, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize for zero dimensions, got %v", err)
	}
}

func TestTargetDistribution_IsMixMultiNormal1(t *testing.T) {
	target, err := TargetDistribution(DefaultComponents, DefaultDimensions, DefaultSeed)
	if err != nil {
		t.Fatal(err)
	}
	reference, _ := MixMultiNormal1(DefaultComponents, DefaultDimensions, DefaultSeed)
	if !mat.Equal(target.Sample(10), reference.Sample(10)) {
		t.Error("Expected target distribution to match MixMultiNormal1")
	}
}

func TestLogNormalized(t *testing.T) {
	logW, err := logNormalized([]float64{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(math.Exp(logW[0])-0.25) > 1e-12 || math.Abs(math.Exp(logW[1])-0.75) > 1e-12 {
		t.Errorf("Expected weights [0.25 0.75], got %v", logW)
	}
	if _, err := logNormalized([]float64{0, 0}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Expected ErrInvalidParameters for zero weights, got %v", err)
	}
}

func TestSample_ZeroAndNegativeCount(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			dist, err := New(v, DefaultConfig())
			if err != nil {
				t.Fatal(err)
			}
			if !dist.Sample(0).IsEmpty() {
				t.Error("Expected empty matrix for zero samples")
			}

			defer func() {
				if recover() == nil {
					t.Error("Expected panic for negative sample count")
				}
			}()
			dist.Sample(-1)
		})
	}
}
