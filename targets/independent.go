package targets

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Independent reinterprets the rightmost batch dimensions of a distribution
// as event dimensions. Sampled values are those of the base distribution;
// log densities of the reinterpreted batch members are summed.
type Independent struct {
	base          Distribution
	reinterpreted int
}

// NewIndependent wraps base, moving reinterpreted batch dimensions into the event.
func NewIndependent(base Distribution, reinterpreted int) (*Independent, error) {
	rank := len(base.BatchShape())
	if reinterpreted < 0 || reinterpreted > rank {
		return nil, fmt.Errorf("%w: cannot reinterpret %d of %d batch dimensions", ErrDimMismatch, reinterpreted, rank)
	}
	return &Independent{base: base, reinterpreted: reinterpreted}, nil
}

// defaultReinterpretedDims keeps the outermost batch dimension, matching the
// usual convention of reinterpreting all but one batch dimension.
func defaultReinterpretedDims(d Distribution) int {
	return max(len(d.BatchShape())-1, 0)
}

func (d *Independent) Unwrap() Distribution { return d.base }

func (d *Independent) ReinterpretedDims() int { return d.reinterpreted }

func (d *Independent) Sample(n int) *mat.Dense { return d.base.Sample(n) }

func (d *Independent) LogProb(x []float64) []float64 {
	lp := d.base.LogProb(x)
	group := product(d.base.BatchShape()[len(d.base.BatchShape())-d.reinterpreted:])
	if group == 1 {
		return lp
	}
	out := make([]float64, len(lp)/group)
	for i := range out {
		out[i] = floats.Sum(lp[i*group : (i+1)*group])
	}
	return out
}

func (d *Independent) BatchShape() []int {
	batch := d.base.BatchShape()
	return append([]int{}, batch[:len(batch)-d.reinterpreted]...)
}

func (d *Independent) EventShape() []int {
	batch := d.base.BatchShape()
	event := append([]int{}, batch[len(batch)-d.reinterpreted:]...)
	return append(event, d.base.EventShape()...)
}

func (d *Independent) Dim() int { return d.base.Dim() }

func (d *Independent) Params() Parameters { return d.base.Params() }

func product(shape []int) int {
	p := 1
	for _, s := range shape {
		p *= s
	}
	return p
}
