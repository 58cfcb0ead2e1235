// Package theory declares the uninterpreted vocabulary of the ground-state
// energetics theory: wavefunctions, densities, potentials, and the symbolic
// atoms naming the real-valued functionals that relate them.
//
// Entities are opaque. The package never inspects physical structure; it only
// threads identities through typed operations so the axiom registry and the
// derivation engine can reason about them symbolically.
package theory

import (
	"errors"
	"fmt"
	"math"

	"github.com/groundstate/hktheorem/internal/symbolic"
)

// ErrSameWavefunction indicates distinctness was claimed for one wavefunction.
var ErrSameWavefunction = errors.New("wavefunctions share an identity")

// ErrGroundStateIdentity indicates distinctness of two ground states cannot be
// read off their labels; only the distinct-potentials axiom may conclude it.
var ErrGroundStateIdentity = errors.New("ground-state distinctness requires the distinct-potentials rule")

// ErrMissingEvaluator indicates a potential was constructed without a function.
var ErrMissingEvaluator = errors.New("potential requires an evaluator function")

// shiftTolerance bounds the pointwise comparison used by witness probing.
// Potentials in scenarios are tabulated from finite samples, so exact float
// equality is too brittle.
const shiftTolerance = 1e-9

// Wavefunction is an opaque quantum state. Equality is identity equality;
// no other structure is assumed.
type Wavefunction struct {
	id       string
	groundOf string
}

// NewWavefunction creates a free wavefunction with the given identity.
func NewWavefunction(id string) Wavefunction {
	return Wavefunction{id: id}
}

// ID returns the wavefunction identity.
func (w Wavefunction) ID() string { return w.id }

// Equal reports identity equality.
func (w Wavefunction) Equal(o Wavefunction) bool { return w.id == o.id }

// IsGroundState reports whether this wavefunction was produced by GroundState.
func (w Wavefunction) IsGroundState() bool { return w.groundOf != "" }

// Density is an opaque spatial density distribution. Densities are produced
// only via DensityOf or named as shared hypotheses.
type Density struct {
	id string
}

// NamedDensity creates a density symbol with an explicit identity. It exists
// so hypotheses can name a common density without deriving it.
func NamedDensity(id string) Density {
	return Density{id: id}
}

// ID returns the density identity.
func (d Density) ID() string { return d.id }

// Equal reports identity equality.
func (d Density) Equal(o Density) bool { return d.id == o.id }

// Potential is a total real-valued function over space with a stable name.
// The function is opaque to the logical core; it is only evaluated when
// probing for constant-shift witnesses.
type Potential struct {
	name string
	eval func(float64) float64
}

// NewPotential creates a potential from a name and a total evaluator.
func NewPotential(name string, eval func(float64) float64) (Potential, error) {
	if eval == nil {
		return Potential{}, ErrMissingEvaluator
	}
	return Potential{name: name, eval: eval}, nil
}

// MustPotential is NewPotential for statically known evaluators.
func MustPotential(name string, eval func(float64) float64) Potential {
	p, err := NewPotential(name, eval)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the potential's stable name.
func (p Potential) Name() string { return p.name }

// Eval evaluates the potential at x.
func (p Potential) Eval(x float64) float64 { return p.eval(x) }

// Difference returns the pointwise-difference potential v1 - v2, named after
// its operands. It is the potential the integral-linearity axiom quantifies
// over.
func Difference(v1, v2 Potential) Potential {
	return Potential{
		name: fmt.Sprintf("%s-%s", v1.name, v2.name),
		eval: func(x float64) float64 { return v1.eval(x) - v2.eval(x) },
	}
}

// GroundState returns the chosen energy minimizer for v. Existence is
// axiomatic; the returned wavefunction is a symbol tied to v's name, and its
// identity must not be compared across potentials (see DistinctWavefunctions).
func GroundState(v Potential) Wavefunction {
	return Wavefunction{id: fmt.Sprintf("gs(%s)", v.name), groundOf: v.name}
}

// DensityOf returns the density derived from psi. Total; no failure.
func DensityOf(psi Wavefunction) Density {
	return Density{id: fmt.Sprintf("n(%s)", psi.id)}
}

// Distinct is evidence that two wavefunctions are different states. It can be
// constructed syntactically for free wavefunctions with different identities,
// or inferred by the distinct-potentials axiom for ground states.
type Distinct struct {
	A, B Wavefunction
	By   string
}

// Relates reports whether the evidence concerns the pair (a, b) in either
// order.
func (d Distinct) Relates(a, b Wavefunction) bool {
	return (d.A.Equal(a) && d.B.Equal(b)) || (d.A.Equal(b) && d.B.Equal(a))
}

// DistinctWavefunctions establishes distinctness of two free wavefunctions by
// identity. Ground-state labels are refused: gs(v1) and gs(v2) may denote the
// same state when v1 and v2 differ by a constant, so their distinctness is
// never a syntactic fact.
func DistinctWavefunctions(a, b Wavefunction) (Distinct, error) {
	if a.Equal(b) {
		return Distinct{}, ErrSameWavefunction
	}
	if a.IsGroundState() && b.IsGroundState() {
		return Distinct{}, ErrGroundStateIdentity
	}
	return Distinct{A: a, B: b, By: "identity"}, nil
}

// ShiftWitness is evidence that two potentials do not differ by a uniform
// additive constant: two points where the pointwise difference disagrees.
type ShiftWitness struct {
	X, Y           float64
	DeltaX, DeltaY float64
}

// Valid reports whether the witness actually separates the differences.
func (w ShiftWitness) Valid() bool {
	return math.Abs(w.DeltaX-w.DeltaY) > shiftTolerance
}

// FindShiftWitness probes the sample points for a pair witnessing that
// v1 - v2 is not constant. It returns false when every sampled difference
// agrees, i.e. the potentials are shift-equivalent on the probe set.
func FindShiftWitness(v1, v2 Potential, points []float64) (ShiftWitness, bool) {
	if len(points) < 2 {
		return ShiftWitness{}, false
	}
	base := points[0]
	baseDelta := v1.Eval(base) - v2.Eval(base)
	for _, x := range points[1:] {
		delta := v1.Eval(x) - v2.Eval(x)
		w := ShiftWitness{X: base, Y: x, DeltaX: baseDelta, DeltaY: delta}
		if w.Valid() {
			return w, true
		}
	}
	return ShiftWitness{}, false
}

// ShiftEquivalentOn reports whether v1 and v2 differ by a uniform constant on
// the probe set. It is the decidable stand-in for constant-shift equivalence
// over all of space.
func ShiftEquivalentOn(v1, v2 Potential, points []float64) bool {
	_, found := FindShiftWitness(v1, v2, points)
	return !found
}

// Symbolic atom constructors. These name the uninterpreted real-valued
// functionals; all reasoning about them goes through the axiom registry.

// KineticAtom names kinetic_interaction(psi).
func KineticAtom(psi Wavefunction) symbolic.Atom {
	return symbolic.Atom(fmt.Sprintf("K(%s)", psi.id))
}

// IntegralAtom names integral(v, n).
func IntegralAtom(v Potential, n Density) symbolic.Atom {
	return symbolic.Atom(fmt.Sprintf("I(%s,%s)", v.name, n.id))
}

// EnergyAtom names energy_expectation(psi, v).
func EnergyAtom(psi Wavefunction, v Potential) symbolic.Atom {
	return symbolic.Atom(fmt.Sprintf("E(%s,%s)", psi.id, v.name))
}

// GroundEnergyAtom names ground_energy(v).
func GroundEnergyAtom(v Potential) symbolic.Atom {
	return symbolic.Atom(fmt.Sprintf("Eg(%s)", v.name))
}
