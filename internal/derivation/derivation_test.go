package derivation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/groundstate/hktheorem/internal/axioms"
	"github.com/groundstate/hktheorem/internal/linarith"
	"github.com/groundstate/hktheorem/internal/symbolic"
	"github.com/groundstate/hktheorem/internal/theory"
)

var probePoints = []float64{-2, -1, 0, 1, 2}

func squared() theory.Potential {
	return theory.MustPotential("x^2", func(x float64) float64 { return x * x })
}

func squaredPlusOne() theory.Potential {
	return theory.MustPotential("x^2+1", func(x float64) float64 { return x*x + 1 })
}

func doubleSquared() theory.Potential {
	return theory.MustPotential("2x^2", func(x float64) float64 { return 2 * x * x })
}

func TestCheckUniquenessEquivalentPair(t *testing.T) {
	// x^2 and x^2+1 differ by the constant 1: the distinct-states rule must
	// not fire and no contradiction derivation runs.
	result, err := CheckUniqueness(squared(), squaredPlusOne(), probePoints)
	if err != nil {
		t.Fatalf("CheckUniqueness: %v", err)
	}
	if !result.Equivalent {
		t.Fatal("expected shift-equivalent pair")
	}
	if result.Proof.Closed {
		t.Fatal("no contradiction should be derived for an equivalent pair")
	}
	if len(result.Proof.Steps) != 1 || result.Proof.Steps[0].Code != StepShiftEquivalence {
		t.Fatalf("unexpected trace %+v", result.Proof.Steps)
	}
}

func TestDeriveContradictionRequiresWitness(t *testing.T) {
	// The derivation cannot be invoked without a valid non-equivalence
	// hypothesis: an empty witness is rejected at the first inference step.
	_, err := DeriveContradiction(Hypotheses{
		V1:            squared(),
		V2:            squaredPlusOne(),
		Witness:       theory.ShiftWitness{},
		SharedDensity: theory.NamedDensity("n"),
	})
	if !errors.Is(err, axioms.ErrInvalidWitness) {
		t.Fatalf("err = %v, want ErrInvalidWitness", err)
	}
}

func TestCheckUniquenessDerivesContradiction(t *testing.T) {
	v1 := squared()
	v2 := doubleSquared()

	result, err := CheckUniqueness(v1, v2, probePoints)
	if err != nil {
		t.Fatalf("CheckUniqueness: %v", err)
	}
	if result.Equivalent {
		t.Fatal("x^2 and 2x^2 must not be shift-equivalent")
	}
	if !result.Proof.Closed {
		t.Fatal("derivation must close to a contradiction")
	}

	wantCodes := []StepCode{
		StepHypotheses,
		StepGroundStates,
		StepDistinctStates,
		StepVariational,
		StepVariational,
		StepUnfold,
		StepUnfold,
		StepSharedDensity,
		StepSharedDensity,
		StepCombine,
		StepContradiction,
	}
	gotCodes := make([]StepCode, 0, len(result.Proof.Steps))
	for _, step := range result.Proof.Steps {
		gotCodes = append(gotCodes, step.Code)
	}
	if diff := cmp.Diff(wantCodes, gotCodes); diff != "" {
		t.Fatalf("step chain mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveContradictionIntermediateFacts(t *testing.T) {
	v1 := squared()
	v2 := doubleSquared()
	witness, found := theory.FindShiftWitness(v1, v2, probePoints)
	if !found {
		t.Fatal("expected witness")
	}

	n := theory.NamedDensity("n")
	proof, err := DeriveContradiction(Hypotheses{V1: v1, V2: v2, Witness: witness, SharedDensity: n})
	if err != nil {
		t.Fatalf("DeriveContradiction: %v", err)
	}

	psi1 := theory.GroundState(v1)
	psi2 := theory.GroundState(v2)

	k1 := symbolic.FromAtom(theory.KineticAtom(psi1))
	k2 := symbolic.FromAtom(theory.KineticAtom(psi2))
	i1 := symbolic.FromAtom(theory.IntegralAtom(v1, n))
	i2 := symbolic.FromAtom(theory.IntegralAtom(v2, n))

	var strict []linarith.Fact
	for _, step := range proof.Steps {
		if step.Code == StepSharedDensity && step.Fact != nil {
			strict = append(strict, *step.Fact)
		}
	}
	if len(strict) != 2 {
		t.Fatalf("expected 2 substituted inequalities, got %d", len(strict))
	}

	// K(psi2) + I(v1,n) > K(psi1) + I(v1,n)
	if !strict[0].Left.Equal(k2.Add(i1)) || !strict[0].Right.Equal(k1.Add(i1)) {
		t.Errorf("first inequality = %s, want K(psi2)+I(v1,n) > K(psi1)+I(v1,n)", strict[0])
	}
	// K(psi1) + I(v2,n) > K(psi2) + I(v2,n)
	if !strict[1].Left.Equal(k1.Add(i2)) || !strict[1].Right.Equal(k2.Add(i2)) {
		t.Errorf("second inequality = %s, want K(psi1)+I(v2,n) > K(psi2)+I(v2,n)", strict[1])
	}

	// The two inequalities close on their own through the oracle.
	refutation, err := linarith.Refute(strict)
	if err != nil {
		t.Fatalf("Refute: %v", err)
	}
	if refutation.Residual != "0" {
		t.Errorf("residual = %s, want 0", refutation.Residual)
	}
}

func TestUnfoldConsumesRegistryDefinitions(t *testing.T) {
	// The unfolding step must apply the equality facts energy_def and
	// ground_energy_def produce, not a locally restated right-hand side.
	v1 := squared()
	v2 := doubleSquared()
	witness, _ := theory.FindShiftWitness(v1, v2, probePoints)

	distinct, err := axioms.DistinctGroundStates(v1, v2, witness)
	if err != nil {
		t.Fatalf("DistinctGroundStates: %v", err)
	}
	psi1 := theory.GroundState(v1)
	psi2 := theory.GroundState(v2)
	strict, err := axioms.RayleighRitzStrict(v1, psi2, distinct)
	if err != nil {
		t.Fatalf("RayleighRitzStrict: %v", err)
	}

	var proof Proof
	got := unfoldEnergies(strict, psi2, v1, psi1, &proof)

	want := strict
	for _, def := range []linarith.Fact{
		axioms.GroundEnergyDef(v1),
		axioms.EnergyDef(psi2, v1),
		axioms.EnergyDef(psi1, v1),
	} {
		want = want.Rewrite(def.Left.Atoms()[0], def.Right)
	}
	if got.String() != want.String() {
		t.Errorf("unfolded fact = %s, want %s", got, want)
	}
	if !got.Left.Equal(want.Left) || !got.Right.Equal(want.Right) {
		t.Errorf("unfolded sides differ from registry rewrites: %s vs %s", got, want)
	}
}

func TestDeriveContradictionUnfoldIdempotent(t *testing.T) {
	// Running the full derivation twice yields identical traces: the
	// definitional rewrites do not drift under repetition.
	v1 := squared()
	v2 := doubleSquared()
	witness, _ := theory.FindShiftWitness(v1, v2, probePoints)
	h := Hypotheses{V1: v1, V2: v2, Witness: witness, SharedDensity: theory.NamedDensity("n")}

	first, err := DeriveContradiction(h)
	if err != nil {
		t.Fatalf("DeriveContradiction: %v", err)
	}
	second, err := DeriveContradiction(h)
	if err != nil {
		t.Fatalf("DeriveContradiction: %v", err)
	}

	render := func(p Proof) []string {
		out := make([]string, 0, len(p.Steps))
		for _, s := range p.Steps {
			out = append(out, string(s.Code)+": "+s.Message)
		}
		return out
	}
	if diff := cmp.Diff(render(first), render(second)); diff != "" {
		t.Fatalf("trace drift (-first +second):\n%s", diff)
	}
}
