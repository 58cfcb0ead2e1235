// Package functional exposes the universal density functional: the infimum
// of the kinetic interaction over the fiber of wavefunctions mapping to a
// given density.
//
// The fiber ranges over a type with no decidable enumeration, so the
// functional is modeled as a specification over a caller-supplied candidate
// set rather than a computable search. It is not consumed by the uniqueness
// derivation; it exists as the constructive witness that the theory supports
// a density-only energy functional.
package functional

import (
	"math"

	"github.com/groundstate/hktheorem/internal/theory"
)

// Kinetic evaluates the kinetic interaction of a wavefunction. The logical
// core treats kinetic_interaction as opaque; callers supply an interpretation
// when they want numeric values.
type Kinetic func(theory.Wavefunction) float64

// Fiber filters candidates down to the wavefunctions whose derived density
// equals n.
func Fiber(n theory.Density, candidates []theory.Wavefunction) []theory.Wavefunction {
	var fiber []theory.Wavefunction
	for _, psi := range candidates {
		if theory.DensityOf(psi).Equal(n) {
			fiber = append(fiber, psi)
		}
	}
	return fiber
}

// Infimum returns the greatest lower bound of values.
//
// The infimum of the empty set is +Inf by convention; callers probing an
// empty fiber observe an unbounded functional rather than an error.
func Infimum(values []float64) float64 {
	inf := math.Inf(1)
	for _, v := range values {
		if v < inf {
			inf = v
		}
	}
	return inf
}

// Value computes F(n) = inf { kinetic(psi) : density_of(psi) = n } over the
// candidate set. An empty fiber yields +Inf (see Infimum).
func Value(n theory.Density, candidates []theory.Wavefunction, kinetic Kinetic) float64 {
	fiber := Fiber(n, candidates)
	values := make([]float64, 0, len(fiber))
	for _, psi := range fiber {
		values = append(values, kinetic(psi))
	}
	return Infimum(values)
}

// IsLowerBound reports whether bound is a lower bound of values.
func IsLowerBound(bound float64, values []float64) bool {
	for _, v := range values {
		if v < bound {
			return false
		}
	}
	return true
}

// IsInfimum reports whether candidate satisfies the infimum specification
// for values: it is a lower bound and no strictly greater value is. This is
// the property any correct F value must satisfy; it does not construct one.
func IsInfimum(candidate float64, values []float64) bool {
	if !IsLowerBound(candidate, values) {
		return false
	}
	if len(values) == 0 {
		return math.IsInf(candidate, 1)
	}
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	// No value attains the candidate: any strictly greater bound must fail.
	return !IsLowerBound(math.Nextafter(candidate, math.Inf(1)), values)
}
