// Package linarith is the linear-arithmetic oracle trusted by the derivation
// engine. It decides whether a conjunction of linear equalities and strict
// inequalities over real-valued symbolic expressions closes to a numeric
// contradiction.
//
// The oracle is deliberately small: it covers exactly the fragment the
// derivation needs (termwise addition of strict inequalities after equality
// rewriting). The outcome is binary. Either a refutation is produced or the
// fact set is reported as not refutable by this procedure; there are no
// partial results.
package linarith

import (
	"errors"
	"fmt"

	"github.com/groundstate/hktheorem/internal/symbolic"
)

// Relation classifies a fact as an equality or a strict inequality.
type Relation int

const (
	// RelEq asserts Left = Right.
	RelEq Relation = iota
	// RelGt asserts Left > Right.
	RelGt
)

func (r Relation) String() string {
	switch r {
	case RelEq:
		return "="
	case RelGt:
		return ">"
	default:
		return "?"
	}
}

// ErrNoStrictFacts indicates refutation was attempted without any strict
// inequality; equalities alone can never yield 0 > 0.
var ErrNoStrictFacts = errors.New("refutation requires at least one strict inequality")

// ErrNotRefutable indicates the fact set does not close to a numeric
// contradiction under positive combination.
var ErrNotRefutable = errors.New("facts do not combine into a numeric contradiction")

// Fact is a single linear relation between two expressions.
type Fact struct {
	Label string
	Left  symbolic.Expr
	Right symbolic.Expr
	Rel   Relation
}

// NewEq builds a labeled equality fact.
func NewEq(label string, left, right symbolic.Expr) Fact {
	return Fact{Label: label, Left: left, Right: right, Rel: RelEq}
}

// NewGt builds a labeled strict-inequality fact.
func NewGt(label string, left, right symbolic.Expr) Fact {
	return Fact{Label: label, Left: left, Right: right, Rel: RelGt}
}

// Gap returns Left - Right. An equality asserts the gap is zero; a strict
// inequality asserts it is positive.
func (f Fact) Gap() symbolic.Expr {
	return f.Left.Sub(f.Right)
}

// Rewrite applies an equality fact as a substitution rule to both sides,
// replacing the atom a with the expression repl. Rewriting is the equality
// substitution primitive the derivation engine relies on.
func (f Fact) Rewrite(a symbolic.Atom, repl symbolic.Expr) Fact {
	return Fact{
		Label: f.Label,
		Left:  f.Left.Substitute(a, repl),
		Right: f.Right.Substitute(a, repl),
		Rel:   f.Rel,
	}
}

func (f Fact) String() string {
	return fmt.Sprintf("%s %s %s", f.Left, f.Rel, f.Right)
}

// Refutation records how a fact set was closed to a contradiction.
type Refutation struct {
	// Combination is the termwise sum of the strict-inequality gaps. The
	// facts assert it is strictly positive.
	Combination symbolic.Expr
	// Residual is the constant value the combination actually reduces to.
	// A refutation requires Residual <= 0, i.e. the facts entail c > 0 for
	// a constant c that is not positive.
	Residual string
}

// Refute attempts to close the fact set to a numeric contradiction.
//
// Equalities are assumed to have been applied via Rewrite already; Refute
// combines the strict inequalities by termwise addition. If every atom
// cancels and the residual constant is not positive, the facts are
// contradictory and a Refutation is returned. Otherwise ErrNotRefutable
// (or ErrNoStrictFacts) is returned and nothing is produced.
func Refute(facts []Fact) (Refutation, error) {
	sum := symbolic.Zero()
	strict := 0
	for _, f := range facts {
		if f.Rel != RelGt {
			continue
		}
		strict++
		sum = sum.Add(f.Gap())
	}
	if strict == 0 {
		return Refutation{}, ErrNoStrictFacts
	}
	if !sum.IsConst() {
		atom := sum.Atoms()[0]
		return Refutation{}, fmt.Errorf("%w: %s remains with coefficient %s in %s",
			ErrNotRefutable, atom, sum.Coeff(atom).RatString(), sum)
	}
	residual := sum.Const()
	if residual.Sign() > 0 {
		return Refutation{}, ErrNotRefutable
	}
	return Refutation{Combination: sum, Residual: residual.RatString()}, nil
}
