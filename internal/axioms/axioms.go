// Package axioms is the trust boundary of the theory: the fixed set of
// accepted facts about wavefunctions, densities, and potentials.
//
// Every exported rule here is assumed, never derived. Rules with
// preconditions reject invalid applications at construction time; a rule that
// returns a fact has, by assumption, a true fact. The derivation engine
// combines these facts but never manufactures its own.
package axioms

import (
	"errors"
	"fmt"

	"github.com/groundstate/hktheorem/internal/linarith"
	"github.com/groundstate/hktheorem/internal/symbolic"
	"github.com/groundstate/hktheorem/internal/theory"
)

// ErrNotDistinct indicates the strict variational rule was applied without
// established distinctness from the ground state.
var ErrNotDistinct = errors.New("strict variational principle requires a state distinct from the ground state")

// ErrInvalidWitness indicates the distinct-potentials rule was applied with a
// witness that does not separate the potentials.
var ErrInvalidWitness = errors.New("witness does not separate the potentials")

// ErrSamePotential indicates the distinct-potentials rule was applied to two
// potentials with the same identity. Their ground states are the same symbol,
// so no distinctness can follow, whatever the witness says.
var ErrSamePotential = errors.New("distinct-potentials rule requires distinct potential identities")

// Axiom names an accepted fact together with its statement.
type Axiom struct {
	Name      string
	Statement string
}

// Registry enumerates every axiom the theory trusts. Nothing outside this
// list is assumed.
func Registry() []Axiom {
	return []Axiom{
		{
			Name:      "energy_def",
			Statement: "E(psi,v) = K(psi) + I(v, n(psi))",
		},
		{
			Name:      "ground_energy_def",
			Statement: "Eg(v) = E(gs(v), v)",
		},
		{
			Name:      "ground_state",
			Statement: "every potential v has a chosen minimizer gs(v)",
		},
		{
			Name:      "rayleigh_ritz_strict",
			Statement: "psi != gs(v) implies E(psi,v) > Eg(v)",
		},
		{
			Name:      "distinct_potentials_distinct_states",
			Statement: "v1 !~ v2 (no uniform constant shift) implies gs(v1) != gs(v2)",
		},
		{
			Name:      "integral_linearity",
			Statement: "I(v1,n) - I(v2,n) = I(v1-v2, n)",
		},
	}
}

// EnergyDef states energy_def for a concrete state and potential:
// E(psi,v) = K(psi) + I(v, n(psi)). The equality is usable as a rewrite rule
// in either direction.
func EnergyDef(psi theory.Wavefunction, v theory.Potential) linarith.Fact {
	left := symbolic.FromAtom(theory.EnergyAtom(psi, v))
	right := symbolic.FromAtom(theory.KineticAtom(psi)).
		Add(symbolic.FromAtom(theory.IntegralAtom(v, theory.DensityOf(psi))))
	return linarith.NewEq(fmt.Sprintf("energy_def(%s,%s)", psi.ID(), v.Name()), left, right)
}

// GroundEnergyDef states ground_energy_def for a concrete potential:
// Eg(v) = E(gs(v), v).
func GroundEnergyDef(v theory.Potential) linarith.Fact {
	left := symbolic.FromAtom(theory.GroundEnergyAtom(v))
	right := symbolic.FromAtom(theory.EnergyAtom(theory.GroundState(v), v))
	return linarith.NewEq(fmt.Sprintf("ground_energy_def(%s)", v.Name()), left, right)
}

// RayleighRitzStrict applies the strict variational principle: given evidence
// that psi is not the ground state of v, infer E(psi,v) > Eg(v).
//
// The precondition is enforced at construction time: the distinctness
// evidence must relate psi and gs(v), and psi must not be gs(v) itself.
func RayleighRitzStrict(v theory.Potential, psi theory.Wavefunction, distinct theory.Distinct) (linarith.Fact, error) {
	ground := theory.GroundState(v)
	if psi.Equal(ground) {
		return linarith.Fact{}, fmt.Errorf("%w: %s is gs(%s)", ErrNotDistinct, psi.ID(), v.Name())
	}
	if !distinct.Relates(psi, ground) {
		return linarith.Fact{}, fmt.Errorf("%w: evidence relates %s and %s, not %s and %s",
			ErrNotDistinct, distinct.A.ID(), distinct.B.ID(), psi.ID(), ground.ID())
	}
	left := symbolic.FromAtom(theory.EnergyAtom(psi, v))
	right := symbolic.FromAtom(theory.GroundEnergyAtom(v))
	return linarith.NewGt(fmt.Sprintf("rayleigh_ritz_strict(%s,%s)", v.Name(), psi.ID()), left, right), nil
}

// DistinctGroundStates applies distinct_potentials_distinct_states: a valid
// shift witness for (v1, v2) yields evidence that gs(v1) != gs(v2).
//
// Potentials that merely shift the energy scale share a ground state, so an
// invalid witness is rejected rather than ignored.
func DistinctGroundStates(v1, v2 theory.Potential, w theory.ShiftWitness) (theory.Distinct, error) {
	if !w.Valid() {
		return theory.Distinct{}, fmt.Errorf("%w: delta(%g)=%g, delta(%g)=%g",
			ErrInvalidWitness, w.X, w.DeltaX, w.Y, w.DeltaY)
	}
	a := theory.GroundState(v1)
	b := theory.GroundState(v2)
	// Potentials are identified by name. Two different functions under the
	// same name would make a and b the same symbol, and evidence that a
	// symbol is distinct from itself is unsound.
	if a.Equal(b) {
		return theory.Distinct{}, fmt.Errorf("%w: both named %q", ErrSamePotential, v1.Name())
	}
	return theory.Distinct{
		A:  a,
		B:  b,
		By: "distinct_potentials_distinct_states",
	}, nil
}

// IntegralLinearity states linearity of the potential-density integral for a
// concrete pair and density: I(v1,n) - I(v2,n) = I(v1-v2, n).
func IntegralLinearity(v1, v2 theory.Potential, n theory.Density) linarith.Fact {
	left := symbolic.FromAtom(theory.IntegralAtom(v1, n)).
		Sub(symbolic.FromAtom(theory.IntegralAtom(v2, n)))
	right := symbolic.FromAtom(theory.IntegralAtom(theory.Difference(v1, v2), n))
	return linarith.NewEq(fmt.Sprintf("integral_linearity(%s,%s,%s)", v1.Name(), v2.Name(), n.ID()), left, right)
}
