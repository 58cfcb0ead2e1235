// Package derivation implements the ground-state uniqueness theorem: two
// potentials that do not differ by a uniform constant cannot share a
// ground-state density.
//
// The proof is a strictly linear chain of inference steps. Each step consumes
// axioms or earlier results; there is no branching and no retry. The chain
// either closes to a numeric contradiction through the linear-arithmetic
// oracle or the whole construction errors atomically, producing nothing.
package derivation

import (
	"errors"
	"fmt"

	"github.com/groundstate/hktheorem/internal/axioms"
	"github.com/groundstate/hktheorem/internal/linarith"
	"github.com/groundstate/hktheorem/internal/symbolic"
	"github.com/groundstate/hktheorem/internal/theory"
)

// Theorem is the stable name of the uniqueness theorem.
const Theorem = "ground_state_uniqueness"

// ErrNotClosed indicates the inference chain completed but the oracle could
// not close it. With valid hypotheses this is unreachable; it is surfaced
// rather than swallowed so an inconsistent axiom change cannot pass silently.
var ErrNotClosed = errors.New("derivation did not close to a contradiction")

// StepCode identifies a state in the linear inference chain.
type StepCode string

const (
	StepHypotheses       StepCode = "hypotheses"
	StepGroundStates     StepCode = "ground_states"
	StepDistinctStates   StepCode = "distinct_states"
	StepVariational      StepCode = "variational_strict"
	StepUnfold           StepCode = "unfold_definitions"
	StepSharedDensity    StepCode = "substitute_shared_density"
	StepCombine          StepCode = "combine_inequalities"
	StepContradiction    StepCode = "numeric_contradiction"
	StepShiftEquivalence StepCode = "shift_equivalence"
)

// Step records one inference state together with the fact it produced, if any.
type Step struct {
	Code    StepCode
	Message string
	Fact    *linarith.Fact
}

// Proof is the ordered trace of a derivation. Closed is true only when the
// final step reached the numeric contradiction.
type Proof struct {
	Theorem string
	Steps   []Step
	Closed  bool
}

func (p *Proof) add(code StepCode, message string, fact *linarith.Fact) {
	p.Steps = append(p.Steps, Step{Code: code, Message: message, Fact: fact})
}

// Hypotheses are the inputs to the contradiction derivation: two potentials,
// a witness that they are not shift-equivalent, and the name of the density
// both ground states are assumed to share.
type Hypotheses struct {
	V1, V2        theory.Potential
	Witness       theory.ShiftWitness
	SharedDensity theory.Density
}

// DeriveContradiction derives False from the hypotheses.
//
// The chain is exactly: ground states, distinct states, the strict
// variational principle applied symmetrically, definitional unfolding,
// shared-density substitution, termwise combination, numeric contradiction.
// A hypothesis whose precondition fails (in particular an invalid shift
// witness) rejects the whole construction; no partial proof is returned.
func DeriveContradiction(h Hypotheses) (Proof, error) {
	proof := Proof{Theorem: Theorem}
	proof.add(StepHypotheses, fmt.Sprintf(
		"assume %s and %s are not shift-equivalent and share a ground-state density %s",
		h.V1.Name(), h.V2.Name(), h.SharedDensity.ID()), nil)

	psi1 := theory.GroundState(h.V1)
	psi2 := theory.GroundState(h.V2)
	proof.add(StepGroundStates, fmt.Sprintf("let psi1 = %s, psi2 = %s", psi1.ID(), psi2.ID()), nil)

	distinct, err := axioms.DistinctGroundStates(h.V1, h.V2, h.Witness)
	if err != nil {
		return Proof{}, fmt.Errorf("distinct ground states: %w", err)
	}
	proof.add(StepDistinctStates, fmt.Sprintf("%s != %s by %s", psi1.ID(), psi2.ID(), distinct.By), nil)

	// Steps 3 and 4 are one parametrized lemma applied twice: the strict
	// variational principle for (v, trial state) with the roles swapped.
	first, err := crossVariational(h.V1, psi2, distinct, &proof)
	if err != nil {
		return Proof{}, err
	}
	second, err := crossVariational(h.V2, psi1, distinct, &proof)
	if err != nil {
		return Proof{}, err
	}

	first = unfoldEnergies(first, psi2, h.V1, psi1, &proof)
	second = unfoldEnergies(second, psi1, h.V2, psi2, &proof)

	first = substituteDensity(first, h, psi1, psi2, &proof)
	second = substituteDensity(second, h, psi1, psi2, &proof)

	combined := []linarith.Fact{first, second}
	proof.add(StepCombine, fmt.Sprintf("add termwise: (%s) and (%s)", first, second), nil)

	refutation, err := linarith.Refute(combined)
	if err != nil {
		return Proof{}, fmt.Errorf("%w: %v", ErrNotClosed, err)
	}
	proof.add(StepContradiction, fmt.Sprintf(
		"sum of strict gaps reduces to %s > 0: contradiction", refutation.Residual), nil)
	proof.Closed = true
	return proof, nil
}

// crossVariational applies the strict variational principle for v against the
// other potential's ground state.
func crossVariational(v theory.Potential, trial theory.Wavefunction, distinct theory.Distinct, proof *Proof) (linarith.Fact, error) {
	fact, err := axioms.RayleighRitzStrict(v, trial, distinct)
	if err != nil {
		return linarith.Fact{}, fmt.Errorf("variational principle for %s: %w", v.Name(), err)
	}
	proof.add(StepVariational, fact.String(), &fact)
	return fact, nil
}

// unfoldEnergies rewrites both sides of a strict fact through energy_def and
// ground_energy_def: E(trial, v) and Eg(v) become kinetic-plus-integral form.
// The rewrite rules are the equality facts the axiom registry produces; the
// engine never restates a definition itself.
func unfoldEnergies(fact linarith.Fact, trial theory.Wavefunction, v theory.Potential, ground theory.Wavefunction, proof *Proof) linarith.Fact {
	for _, def := range []linarith.Fact{
		axioms.GroundEnergyDef(v),
		axioms.EnergyDef(trial, v),
		axioms.EnergyDef(ground, v),
	} {
		atom, repl := definitionRewrite(def)
		fact = fact.Rewrite(atom, repl)
	}
	proof.add(StepUnfold, fact.String(), &fact)
	return fact
}

// definitionRewrite reads a definitional equality left to right as a
// substitution rule. The left side of energy_def and ground_energy_def is a
// single atom.
func definitionRewrite(def linarith.Fact) (symbolic.Atom, symbolic.Expr) {
	return def.Left.Atoms()[0], def.Right
}

// substituteDensity rewrites every integral over either ground-state density
// to the assumed shared density.
func substituteDensity(fact linarith.Fact, h Hypotheses, psi1, psi2 theory.Wavefunction, proof *Proof) linarith.Fact {
	for _, v := range []theory.Potential{h.V1, h.V2} {
		for _, psi := range []theory.Wavefunction{psi1, psi2} {
			old := theory.IntegralAtom(v, theory.DensityOf(psi))
			repl := symbolic.FromAtom(theory.IntegralAtom(v, h.SharedDensity))
			fact = fact.Rewrite(old, repl)
		}
	}
	proof.add(StepSharedDensity, fact.String(), &fact)
	return fact
}

// Result is the outcome of checking the uniqueness theorem for a pair of
// potentials.
type Result struct {
	Theorem string
	// Equivalent is true when no shift witness was found on the probe set;
	// the potentials differ by at most a constant and the theorem holds
	// directly, with no derivation to run.
	Equivalent bool
	Proof      Proof
}

// CheckUniqueness checks the theorem for a concrete pair of potentials.
//
// The theorem is stated as a contrapositive: if two potentials share a
// ground-state density they are shift-equivalent. When the probe set yields
// no witness the pair is equivalent and the conclusion is immediate. When a
// witness exists, the shared-density hypothesis is assumed and the
// contradiction derivation must close, establishing that the shared density
// is impossible.
func CheckUniqueness(v1, v2 theory.Potential, probes []float64) (Result, error) {
	result := Result{Theorem: Theorem}

	witness, found := theory.FindShiftWitness(v1, v2, probes)
	if !found {
		result.Equivalent = true
		result.Proof = Proof{Theorem: Theorem, Steps: []Step{{
			Code: StepShiftEquivalence,
			Message: fmt.Sprintf("%s and %s differ by a uniform constant on the probe set; they share a ground state",
				v1.Name(), v2.Name()),
		}}}
		return result, nil
	}

	proof, err := DeriveContradiction(Hypotheses{
		V1:            v1,
		V2:            v2,
		Witness:       witness,
		SharedDensity: theory.NamedDensity("n"),
	})
	if err != nil {
		return Result{}, err
	}
	result.Proof = proof
	return result, nil
}
