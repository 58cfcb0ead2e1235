package axioms

import (
	"errors"
	"testing"

	"github.com/groundstate/hktheorem/internal/linarith"
	"github.com/groundstate/hktheorem/internal/symbolic"
	"github.com/groundstate/hktheorem/internal/theory"
)

func harmonic(scale, offset float64) theory.Potential {
	name := "v"
	switch {
	case scale == 1 && offset == 0:
		name = "x^2"
	case scale == 1 && offset == 1:
		name = "x^2+1"
	case scale == 2 && offset == 0:
		name = "2x^2"
	}
	return theory.MustPotential(name, func(x float64) float64 { return scale*x*x + offset })
}

var probePoints = []float64{-2, -1, 0, 1, 2}

func TestRegistryIsFixed(t *testing.T) {
	want := []string{
		"energy_def",
		"ground_energy_def",
		"ground_state",
		"rayleigh_ritz_strict",
		"distinct_potentials_distinct_states",
		"integral_linearity",
	}
	reg := Registry()
	if len(reg) != len(want) {
		t.Fatalf("registry has %d axioms, want %d", len(reg), len(want))
	}
	for i, axiom := range reg {
		if axiom.Name != want[i] {
			t.Errorf("registry[%d] = %s, want %s", i, axiom.Name, want[i])
		}
		if axiom.Statement == "" {
			t.Errorf("axiom %s has no statement", axiom.Name)
		}
	}
}

func TestEnergyDef(t *testing.T) {
	v := harmonic(1, 0)
	psi := theory.NewWavefunction("psi")

	fact := EnergyDef(psi, v)
	if fact.Rel != linarith.RelEq {
		t.Fatalf("energy_def must be an equality, got %v", fact.Rel)
	}
	want := symbolic.FromAtom(theory.KineticAtom(psi)).
		Add(symbolic.FromAtom(theory.IntegralAtom(v, theory.DensityOf(psi))))
	if !fact.Right.Equal(want) {
		t.Errorf("right side = %s, want %s", fact.Right, want)
	}
}

func TestGroundStateEnergyIsNotStrict(t *testing.T) {
	// For psi = gs(v), energy_def plus ground_energy_def force equality:
	// unfolding Eg(v) through both definitions reaches exactly E(gs(v),v).
	v := harmonic(1, 0)
	ground := theory.GroundState(v)

	groundDef := GroundEnergyDef(v)
	unfolded := groundDef.Right
	if !unfolded.Equal(symbolic.FromAtom(theory.EnergyAtom(ground, v))) {
		t.Errorf("Eg unfolds to %s, want E(gs(v),v)", unfolded)
	}

	// And the strict rule must refuse the ground state itself.
	d := theory.Distinct{A: ground, B: theory.NewWavefunction("other"), By: "identity"}
	if _, err := RayleighRitzStrict(v, ground, d); !errors.Is(err, ErrNotDistinct) {
		t.Errorf("err = %v, want ErrNotDistinct", err)
	}
}

func TestRayleighRitzStrict(t *testing.T) {
	v := harmonic(1, 0)
	psi := theory.NewWavefunction("trial")
	ground := theory.GroundState(v)

	t.Run("valid evidence yields strict fact", func(t *testing.T) {
		d, err := theory.DistinctWavefunctions(psi, ground)
		if err != nil {
			t.Fatalf("DistinctWavefunctions: %v", err)
		}
		fact, err := RayleighRitzStrict(v, psi, d)
		if err != nil {
			t.Fatalf("RayleighRitzStrict: %v", err)
		}
		if fact.Rel != linarith.RelGt {
			t.Errorf("relation = %v, want strict inequality", fact.Rel)
		}
		if !fact.Left.Equal(symbolic.FromAtom(theory.EnergyAtom(psi, v))) {
			t.Errorf("left = %s, want E(trial,v)", fact.Left)
		}
		if !fact.Right.Equal(symbolic.FromAtom(theory.GroundEnergyAtom(v))) {
			t.Errorf("right = %s, want Eg(v)", fact.Right)
		}
	})

	t.Run("unrelated evidence rejected", func(t *testing.T) {
		other := theory.NewWavefunction("unrelated")
		d, err := theory.DistinctWavefunctions(psi, other)
		if err != nil {
			t.Fatalf("DistinctWavefunctions: %v", err)
		}
		if _, err := RayleighRitzStrict(v, psi, d); !errors.Is(err, ErrNotDistinct) {
			t.Errorf("err = %v, want ErrNotDistinct", err)
		}
	})
}

func TestDistinctGroundStates(t *testing.T) {
	t.Run("equivalent pair has no witness and rule cannot fire", func(t *testing.T) {
		v1 := harmonic(1, 0)
		v2 := harmonic(1, 1)
		w, found := theory.FindShiftWitness(v1, v2, probePoints)
		if found {
			t.Fatalf("unexpected witness %+v for shift-equivalent pair", w)
		}
		if _, err := DistinctGroundStates(v1, v2, w); !errors.Is(err, ErrInvalidWitness) {
			t.Errorf("err = %v, want ErrInvalidWitness", err)
		}
	})

	t.Run("same name rejects even with a valid witness", func(t *testing.T) {
		// Two different functions under one name: the witness is genuine,
		// but gs(v) and gs(v) are the same symbol.
		v1 := theory.MustPotential("v", func(x float64) float64 { return x * x })
		v2 := theory.MustPotential("v", func(x float64) float64 { return 2 * x * x })
		w, found := theory.FindShiftWitness(v1, v2, probePoints)
		if !found {
			t.Fatal("expected a witness for the same-named pair")
		}
		if _, err := DistinctGroundStates(v1, v2, w); !errors.Is(err, ErrSamePotential) {
			t.Errorf("err = %v, want ErrSamePotential", err)
		}
	})

	t.Run("genuinely distinct pair", func(t *testing.T) {
		v1 := harmonic(1, 0)
		v2 := harmonic(2, 0)
		w, found := theory.FindShiftWitness(v1, v2, probePoints)
		if !found {
			t.Fatal("expected a witness for x^2 vs 2x^2")
		}
		d, err := DistinctGroundStates(v1, v2, w)
		if err != nil {
			t.Fatalf("DistinctGroundStates: %v", err)
		}
		if !d.Relates(theory.GroundState(v1), theory.GroundState(v2)) {
			t.Error("evidence should relate the two ground states")
		}
	})
}

func TestIntegralLinearity(t *testing.T) {
	// Verified via symbolic substitution on a non-trivial synthetic pair:
	// rewriting I(v1,n) by the linearity equality leaves I(v1-v2,n)+I(v2,n).
	v1 := harmonic(1, 0)
	v2 := harmonic(2, 0)
	n := theory.NamedDensity("n")

	fact := IntegralLinearity(v1, v2, n)
	if fact.Rel != linarith.RelEq {
		t.Fatalf("integral_linearity must be an equality, got %v", fact.Rel)
	}

	i1 := theory.IntegralAtom(v1, n)
	i2 := symbolic.FromAtom(theory.IntegralAtom(v2, n))
	idiff := symbolic.FromAtom(theory.IntegralAtom(theory.Difference(v1, v2), n))

	// Solve the equality for I(v1,n) and substitute into a probe expression.
	solved := idiff.Add(i2)
	probe := symbolic.FromAtom(i1).Add(symbolic.FromAtom("noise"))
	rewritten := probe.Substitute(i1, solved)
	want := solved.Add(symbolic.FromAtom("noise"))
	if !rewritten.Equal(want) {
		t.Errorf("rewritten = %s, want %s", rewritten, want)
	}
}
