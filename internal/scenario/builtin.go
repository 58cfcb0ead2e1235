package scenario

import "github.com/groundstate/hktheorem/internal/theory"

// BuiltIn returns the scenarios shipped with the prover. They cover both
// outcomes of a uniqueness check: a pair that differs by a uniform constant,
// and a pair whose difference varies across the probe set.
func BuiltIn() []Scenario {
	probes := []float64{-1, 0, 1, 2}
	return []Scenario{
		{
			Name:   "shifted-harmonic",
			V1:     theory.MustPotential("v1", func(x float64) float64 { return x * x }),
			V2:     theory.MustPotential("v2", func(x float64) float64 { return x*x + 1 }),
			Probes: probes,
		},
		{
			Name:   "scaled-harmonic",
			V1:     theory.MustPotential("v1", func(x float64) float64 { return x * x }),
			V2:     theory.MustPotential("v2", func(x float64) float64 { return 2 * x * x }),
			Probes: probes,
		},
	}
}
