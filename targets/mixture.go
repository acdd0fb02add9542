package targets

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultComponents = 3
	DefaultDimensions = 4
	DefaultSeed       = 0

	locationMax = 10.0
	scaleMax    = 1.0
	weightMax   = 1.0
)

// Distribution is a constructed target distribution.
//
// Sample draws n events and returns them as the rows of an n × Dim matrix;
// Sample(0) returns an empty matrix and a negative n panics.
// LogProb evaluates the log density of a single event and returns one value
// per batch member (a single value when the batch shape is empty).
// Sampling advances the distribution's own stream, so a Distribution must not
// be sampled from concurrently.
type Distribution interface {
	Sample(n int) *mat.Dense
	LogProb(x []float64) []float64
	BatchShape() []int
	EventShape() []int
	Dim() int
	Params() Parameters
}

// Parameters are the arrays a mixture was built from.
type Parameters struct {
	Loc     *mat.Dense // components × dimensions
	Scale   *mat.Dense // components × dimensions
	Weights *mat.Dense // dimensions × components (per-dimension) or 1 × components (shared)
}

// Config holds the constructor arguments shared by every variant.
type Config struct {
	Components int
	Dimensions int
	Seed       int64
}

func DefaultConfig() Config {
	return Config{
		Components: DefaultComponents,
		Dimensions: DefaultDimensions,
		Seed:       DefaultSeed,
	}
}

// New builds the mixture selected by v. Parameters are drawn from a fresh
// Seeds context, so equal arguments always yield equal parameter arrays.
func New(v Variant, cfg Config) (Distribution, error) {
	traits, ok := variantTraits[v]
	if !ok {
		return nil, fmt.Errorf("unknown variant %d", int(v))
	}
	if cfg.Components < 1 || cfg.Dimensions < 1 {
		return nil, fmt.Errorf("%w: components=%d dimensions=%d", ErrInvalidSize, cfg.Components, cfg.Dimensions)
	}

	seeds := NewSeeds(cfg.Seed)
	params := drawParameters(seeds.Array(), cfg.Components, cfg.Dimensions, traits.weighting == WeightingPerDimension)

	var (
		base Distribution
		err  error
	)
	switch {
	case traits.weighting == WeightingPerDimension && traits.family == FamilyNormal:
		base, err = newPerDimensionMixture(params, seeds.Framework())
	case traits.weighting == WeightingShared:
		base, err = newSharedMixture(params, traits.family, traits.construction, seeds.Framework())
	default:
		err = fmt.Errorf("%v components do not support per-dimension weighting", traits.family)
	}
	if err != nil {
		return nil, err
	}

	if !traits.independent {
		return base, nil
	}
	return NewIndependent(base, defaultReinterpretedDims(base))
}

func MixNormal1(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixNormal1, Config{components, dimensions, seed})
}

func MixNormal1Indep(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixNormal1Indep, Config{components, dimensions, seed})
}

func MixNormal2(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixNormal2, Config{components, dimensions, seed})
}

func MixNormal2Indep(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixNormal2Indep, Config{components, dimensions, seed})
}

func MixMultiNormal1(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixMultiNormal1, Config{components, dimensions, seed})
}

func MixMultiNormal1Indep(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixMultiNormal1Indep, Config{components, dimensions, seed})
}

func MixMultiNormal2(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixMultiNormal2, Config{components, dimensions, seed})
}

func MixMultiNormal2Indep(components, dimensions int, seed int64) (Distribution, error) {
	return New(VariantMixMultiNormal2Indep, Config{components, dimensions, seed})
}

// TargetDistribution is the default benchmarking target: a shared-weight
// mixture of diagonal multivariate normals.
func TargetDistribution(components, dimensions int, seed int64) (Distribution, error) {
	return MixMultiNormal1(components, dimensions, seed)
}

// drawParameters draws locations, then scales, then weights, in row-major order.
func drawParameters(src rand.Source, components, dimensions int, perDimension bool) Parameters {
	loc := uniformDense(src, components, dimensions, locationMax)
	scale := uniformDense(src, components, dimensions, scaleMax)
	weightRows := 1
	if perDimension {
		weightRows = dimensions
	}
	weights := uniformDense(src, weightRows, components, weightMax)
	return Parameters{Loc: loc, Scale: scale, Weights: weights}
}

func uniformDense(src rand.Source, rows, cols int, upper float64) *mat.Dense {
	u := distuv.Uniform{Min: 0, Max: upper, Src: src}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = u.Rand()
	}
	return mat.NewDense(rows, cols, data)
}

// logNormalized returns log(w / sum(w)).
func logNormalized(w []float64) ([]float64, error) {
	sum := floats.Sum(w)
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: weights %v", ErrInvalidParameters, w)
	}
	out := make([]float64, len(w))
	for i, v := range w {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative weight %v", ErrInvalidParameters, v)
		}
		out[i] = math.Log(v / sum)
	}
	return out, nil
}

func checkScales(scale *mat.Dense) error {
	r, c := scale.Dims()
	for i := range r {
		for j := range c {
			if s := scale.At(i, j); !(s > 0) {
				return fmt.Errorf("%w: scale[%d][%d] = %v", ErrInvalidParameters, i, j, s)
			}
		}
	}
	return nil
}

// newSampleMatrix allocates the n × dim result of Sample.
func newSampleMatrix(n, dim int) *mat.Dense {
	if n < 0 {
		panic(fmt.Sprintf("targets: negative sample count %d", n))
	}
	if n == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(n, dim, nil)
}

func checkEvent(x []float64, dim int) {
	if len(x) != dim {
		panic(fmt.Sprintf("targets: event has %d values, want %d", len(x), dim))
	}
}

/**
* perDimensionMixture mixes univariate normals independently in every
* dimension: dimension j picks component k with probability Weights[j][k].
* Batch shape is [dimensions], event shape is scalar.
 */
type perDimensionMixture struct {
	params  Parameters
	cats    []distuv.Categorical
	logW    [][]float64
	sampler rand.Source
}

func newPerDimensionMixture(params Parameters, sampler rand.Source) (*perDimensionMixture, error) {
	if err := checkScales(params.Scale); err != nil {
		return nil, err
	}
	dims, _ := params.Weights.Dims()
	m := &perDimensionMixture{
		params:  params,
		cats:    make([]distuv.Categorical, dims),
		logW:    make([][]float64, dims),
		sampler: sampler,
	}
	for j := range dims {
		w := mat.Row(nil, j, params.Weights)
		logW, err := logNormalized(w)
		if err != nil {
			return nil, err
		}
		m.logW[j] = logW
		m.cats[j] = distuv.NewCategorical(w, sampler)
	}
	return m, nil
}

func (m *perDimensionMixture) Sample(n int) *mat.Dense {
	dims := m.Dim()
	out := newSampleMatrix(n, dims)
	for i := range n {
		for j := range dims {
			k := int(m.cats[j].Rand())
			out.Set(i, j, m.component(k, j).Rand())
		}
	}
	return out
}

func (m *perDimensionMixture) LogProb(x []float64) []float64 {
	checkEvent(x, m.Dim())
	components, _ := m.params.Loc.Dims()
	out := make([]float64, len(x))
	terms := make([]float64, components)
	for j, v := range x {
		for k := range components {
			terms[k] = m.logW[j][k] + m.component(k, j).LogProb(v)
		}
		out[j] = floats.LogSumExp(terms)
	}
	return out
}

func (m *perDimensionMixture) component(k, j int) distuv.Normal {
	return distuv.Normal{Mu: m.params.Loc.At(k, j), Sigma: m.params.Scale.At(k, j), Src: m.sampler}
}

func (m *perDimensionMixture) BatchShape() []int { return []int{m.Dim()} }

func (m *perDimensionMixture) EventShape() []int { return []int{} }

func (m *perDimensionMixture) Dim() int {
	_, c := m.params.Loc.Dims()
	return c
}

func (m *perDimensionMixture) Params() Parameters { return m.params }

// component is one full-dimensional mixture component.
type component interface {
	rand(dst []float64)
	logProb(x []float64) float64
}

// diagNormal is a vectorised diagonal normal: one univariate normal per dimension.
type diagNormal struct {
	normals []distuv.Normal
}

func (d diagNormal) rand(dst []float64) {
	for j := range d.normals {
		dst[j] = d.normals[j].Rand()
	}
}

func (d diagNormal) logProb(x []float64) float64 {
	var lp float64
	for j := range d.normals {
		lp += d.normals[j].LogProb(x[j])
	}
	return lp
}

type mvNormal struct {
	*distmv.Normal
}

func (d mvNormal) rand(dst []float64) { d.Rand(dst) }

func (d mvNormal) logProb(x []float64) float64 { return d.LogProb(x) }

/**
* sharedMixture draws one component index per sample from a single
* categorical and samples the whole event from that component.
* Batch shape is scalar, event shape is [dimensions].
 */
type sharedMixture struct {
	params       Parameters
	family       Family
	construction Construction
	cat          distuv.Categorical
	logW         []float64
	components   []component
}

func newSharedMixture(params Parameters, family Family, construction Construction, sampler rand.Source) (*sharedMixture, error) {
	if err := checkScales(params.Scale); err != nil {
		return nil, err
	}
	w := mat.Row(nil, 0, params.Weights)
	logW, err := logNormalized(w)
	if err != nil {
		return nil, err
	}

	components, dims := params.Loc.Dims()
	m := &sharedMixture{
		params:       params,
		family:       family,
		construction: construction,
		cat:          distuv.NewCategorical(w, sampler),
		logW:         logW,
		components:   make([]component, components),
	}
	for k := range components {
		loc := mat.Row(nil, k, params.Loc)
		scale := mat.Row(nil, k, params.Scale)
		if family == FamilyMultivariateNormalDiag && construction == ConstructionComponentList {
			variances := make([]float64, dims)
			for j, s := range scale {
				variances[j] = s * s
			}
			sigma := mat.NewSymDense(dims, nil)
			for j, v := range variances {
				sigma.SetSym(j, j, v)
			}
			normal, ok := distmv.NewNormal(loc, sigma, sampler)
			if !ok {
				return nil, fmt.Errorf("%w: covariance of component %d is not positive definite", ErrInvalidParameters, k)
			}
			m.components[k] = mvNormal{normal}
			continue
		}
		normals := make([]distuv.Normal, dims)
		for j := range dims {
			normals[j] = distuv.Normal{Mu: loc[j], Sigma: scale[j], Src: sampler}
		}
		m.components[k] = diagNormal{normals: normals}
	}
	return m, nil
}

func (m *sharedMixture) Sample(n int) *mat.Dense {
	out := newSampleMatrix(n, m.Dim())
	for i := range n {
		k := int(m.cat.Rand())
		m.components[k].rand(out.RawRowView(i))
	}
	return out
}

func (m *sharedMixture) LogProb(x []float64) []float64 {
	checkEvent(x, m.Dim())
	terms := make([]float64, len(m.components))
	for k, c := range m.components {
		terms[k] = m.logW[k] + c.logProb(x)
	}
	return []float64{floats.LogSumExp(terms)}
}

func (m *sharedMixture) BatchShape() []int { return []int{} }

func (m *sharedMixture) EventShape() []int { return []int{m.Dim()} }

func (m *sharedMixture) Dim() int {
	_, c := m.params.Loc.Dims()
	return c
}

func (m *sharedMixture) Params() Parameters { return m.params }
