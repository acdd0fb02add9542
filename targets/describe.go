package targets

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Describe returns one description per distribution, separated by newlines.
// Each description names the mixture construction, its component family,
// weighting and shapes, followed by the parameter arrays.
func Describe(dists ...Distribution) string {
	descriptions := make([]string, len(dists))
	for i, d := range dists {
		descriptions[i] = describe(d)
	}
	return strings.Join(descriptions, "\n")
}

func describe(d Distribution) string {
	switch m := d.(type) {
	case *Independent:
		return fmt.Sprintf("Independent(reinterpreted=%d, batch_shape=%v, event_shape=%v) of %s",
			m.ReinterpretedDims(), m.BatchShape(), m.EventShape(), describe(m.Unwrap()))
	case *perDimensionMixture:
		return header("MixtureSameFamily", FamilyNormal, WeightingPerDimension, d) + describeParameters(d.Params())
	case *sharedMixture:
		name := "MixtureSameFamily"
		if m.construction == ConstructionComponentList {
			name = "Mixture"
		}
		return header(name, m.family, WeightingShared, d) + describeParameters(d.Params())
	}
	return fmt.Sprintf("%T(batch_shape=%v, event_shape=%v)", d, d.BatchShape(), d.EventShape())
}

func header(name string, family Family, weighting Weighting, d Distribution) string {
	components, _ := d.Params().Loc.Dims()
	return fmt.Sprintf("%s(components=%d x %v, weighting=%v, batch_shape=%v, event_shape=%v)",
		name, components, family, weighting, d.BatchShape(), d.EventShape())
}

func describeParameters(p Parameters) string {
	var b strings.Builder
	for _, param := range []struct {
		name string
		m    *mat.Dense
	}{{"loc", p.Loc}, {"scale", p.Scale}, {"weights", p.Weights}} {
		prefix := "  " + param.name + " = "
		fmt.Fprintf(&b, "\n%s%.4g", prefix, mat.Formatted(param.m, mat.Prefix(strings.Repeat(" ", len(prefix))), mat.Squeeze()))
	}
	return b.String()
}

func (m *perDimensionMixture) String() string { return describe(m) }

func (m *sharedMixture) String() string { return describe(m) }

func (d *Independent) String() string { return describe(d) }
