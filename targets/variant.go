package targets

import (
	"fmt"
	"strings"
)

// Family is the distribution family of the mixture components.
type Family int

const (
	FamilyNormal Family = iota
	FamilyMultivariateNormalDiag
)

func (f Family) String() string {
	switch f {
	case FamilyNormal:
		return "Normal"
	case FamilyMultivariateNormalDiag:
		return "MultivariateNormalDiag"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Weighting is the granularity of the mixture weights.
type Weighting int

const (
	// WeightingPerDimension draws one component index per dimension.
	WeightingPerDimension Weighting = iota
	// WeightingShared draws a single component index for the whole sample.
	WeightingShared
)

func (w Weighting) String() string {
	switch w {
	case WeightingPerDimension:
		return "per-dimension"
	case WeightingShared:
		return "shared"
	}
	return fmt.Sprintf("Weighting(%d)", int(w))
}

// Construction selects how components are held by the mixture.
type Construction int

const (
	// ConstructionSameFamily holds vectorised parameters of one family.
	ConstructionSameFamily Construction = iota
	// ConstructionComponentList holds a list of independently built components.
	ConstructionComponentList
)

// Variant tags one of the supported mixture constructions.
type Variant int

const (
	VariantMixNormal1 Variant = iota
	VariantMixNormal1Indep
	VariantMixNormal2
	VariantMixNormal2Indep
	VariantMixMultiNormal1
	VariantMixMultiNormal1Indep
	VariantMixMultiNormal2
	VariantMixMultiNormal2Indep
)

type variantTrait struct {
	name         string
	family       Family
	weighting    Weighting
	construction Construction
	independent  bool
}

var variantTraits = map[Variant]variantTrait{
	VariantMixNormal1:           {"MixNormal1", FamilyNormal, WeightingPerDimension, ConstructionSameFamily, false},
	VariantMixNormal1Indep:      {"MixNormal1_indep", FamilyNormal, WeightingPerDimension, ConstructionSameFamily, true},
	VariantMixNormal2:           {"MixNormal2", FamilyNormal, WeightingShared, ConstructionSameFamily, false},
	VariantMixNormal2Indep:      {"MixNormal2_indep", FamilyNormal, WeightingShared, ConstructionSameFamily, true},
	VariantMixMultiNormal1:      {"MixMultiNormal1", FamilyMultivariateNormalDiag, WeightingShared, ConstructionComponentList, false},
	VariantMixMultiNormal1Indep: {"MixMultiNormal1_indep", FamilyMultivariateNormalDiag, WeightingShared, ConstructionComponentList, true},
	VariantMixMultiNormal2:      {"MixMultiNormal2", FamilyMultivariateNormalDiag, WeightingShared, ConstructionSameFamily, false},
	VariantMixMultiNormal2Indep: {"MixMultiNormal2_indep", FamilyMultivariateNormalDiag, WeightingShared, ConstructionSameFamily, true},
}

// Variants lists all variants in declaration order.
func Variants() []Variant {
	return []Variant{
		VariantMixNormal1,
		VariantMixNormal1Indep,
		VariantMixNormal2,
		VariantMixNormal2Indep,
		VariantMixMultiNormal1,
		VariantMixMultiNormal1Indep,
		VariantMixMultiNormal2,
		VariantMixMultiNormal2Indep,
	}
}

func (v Variant) String() string {
	if s, ok := variantTraits[v]; ok {
		return s.name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func (v Variant) Family() Family { return variantTraits[v].family }

func (v Variant) Weighting() Weighting { return variantTraits[v].weighting }

func (v Variant) Construction() Construction { return variantTraits[v].construction }

func (v Variant) Independent() bool { return variantTraits[v].independent }

// ParseVariant resolves a variant name such as "MixMultiNormal1" or
// "MixNormal2_indep". Matching ignores case, and "Indep" may be written with
// or without the underscore.
func ParseVariant(name string) (Variant, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
	for _, v := range Variants() {
		if strings.ReplaceAll(strings.ToLower(v.String()), "_", "") == normalized {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", name)
}
