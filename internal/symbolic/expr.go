// Package symbolic implements linear symbolic expressions over opaque
// real-valued atoms with exact rational coefficients.
//
// An Atom stands for a real number whose value is never inspected (a kinetic
// term, an integral, an energy). An Expr is a finite linear combination of
// atoms plus a rational constant. Expressions are immutable: every operation
// returns a fresh value.
package symbolic

import (
	"math/big"
	"sort"
	"strings"
)

// Atom is an opaque real-valued symbol. Atoms compare by their key.
type Atom string

// Expr is a linear combination of atoms plus a rational constant.
//
// The zero value is the expression 0 and is ready to use.
type Expr struct {
	coeffs   map[Atom]*big.Rat
	constant *big.Rat
}

// Zero returns the expression 0.
func Zero() Expr {
	return Expr{}
}

// FromAtom returns the expression consisting of the single atom a.
func FromAtom(a Atom) Expr {
	return Expr{coeffs: map[Atom]*big.Rat{a: big.NewRat(1, 1)}}
}

// FromInt returns the constant expression n.
func FromInt(n int64) Expr {
	if n == 0 {
		return Expr{}
	}
	return Expr{constant: big.NewRat(n, 1)}
}

// clone returns a deep copy with its own maps.
func (e Expr) clone() Expr {
	out := Expr{}
	if len(e.coeffs) > 0 {
		out.coeffs = make(map[Atom]*big.Rat, len(e.coeffs))
		for a, c := range e.coeffs {
			out.coeffs[a] = new(big.Rat).Set(c)
		}
	}
	if e.constant != nil {
		out.constant = new(big.Rat).Set(e.constant)
	}
	return out
}

// normalize drops zero coefficients and zero constants in place.
func (e *Expr) normalize() {
	for a, c := range e.coeffs {
		if c.Sign() == 0 {
			delete(e.coeffs, a)
		}
	}
	if len(e.coeffs) == 0 {
		e.coeffs = nil
	}
	if e.constant != nil && e.constant.Sign() == 0 {
		e.constant = nil
	}
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	out := e.clone()
	for a, c := range o.coeffs {
		if out.coeffs == nil {
			out.coeffs = make(map[Atom]*big.Rat)
		}
		if existing, ok := out.coeffs[a]; ok {
			existing.Add(existing, c)
		} else {
			out.coeffs[a] = new(big.Rat).Set(c)
		}
	}
	if o.constant != nil {
		if out.constant == nil {
			out.constant = new(big.Rat)
		}
		out.constant.Add(out.constant, o.constant)
	}
	out.normalize()
	return out
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr {
	return e.Add(o.Neg())
}

// Neg returns -e.
func (e Expr) Neg() Expr {
	out := e.clone()
	for _, c := range out.coeffs {
		c.Neg(c)
	}
	if out.constant != nil {
		out.constant.Neg(out.constant)
	}
	return out
}

// Scale returns e multiplied by the rational p/q. Scale panics when q is zero.
func (e Expr) Scale(p, q int64) Expr {
	if q == 0 {
		panic("symbolic: scale by zero denominator")
	}
	factor := big.NewRat(p, q)
	out := e.clone()
	for _, c := range out.coeffs {
		c.Mul(c, factor)
	}
	if out.constant != nil {
		out.constant.Mul(out.constant, factor)
	}
	out.normalize()
	return out
}

// Coeff returns the coefficient of atom a as an exact rational copy.
func (e Expr) Coeff(a Atom) *big.Rat {
	if c, ok := e.coeffs[a]; ok {
		return new(big.Rat).Set(c)
	}
	return new(big.Rat)
}

// Const returns the constant part as an exact rational copy.
func (e Expr) Const() *big.Rat {
	if e.constant == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(e.constant)
}

// IsZero reports whether e is the expression 0.
func (e Expr) IsZero() bool {
	return len(e.coeffs) == 0 && (e.constant == nil || e.constant.Sign() == 0)
}

// IsConst reports whether e has no atom terms.
func (e Expr) IsConst() bool {
	return len(e.coeffs) == 0
}

// Atoms returns the atoms with non-zero coefficients in deterministic order.
func (e Expr) Atoms() []Atom {
	atoms := make([]Atom, 0, len(e.coeffs))
	for a := range e.coeffs {
		atoms = append(atoms, a)
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i] < atoms[j] })
	return atoms
}

// Substitute returns e with every occurrence of atom a replaced by the
// expression repl, scaled by a's coefficient. Substituting an atom that does
// not occur returns e unchanged.
func (e Expr) Substitute(a Atom, repl Expr) Expr {
	c, ok := e.coeffs[a]
	if !ok {
		return e.clone()
	}
	out := e.clone()
	delete(out.coeffs, a)
	factor := new(big.Rat).Set(c)
	scaled := repl.clone()
	for _, rc := range scaled.coeffs {
		rc.Mul(rc, factor)
	}
	if scaled.constant != nil {
		scaled.constant.Mul(scaled.constant, factor)
	}
	result := out.Add(scaled)
	return result
}

// Equal reports structural equality after normalization.
func (e Expr) Equal(o Expr) bool {
	return e.Sub(o).IsZero()
}

// String renders the expression with atoms in deterministic order, e.g.
// "K(psi1) + I(v1,n) - Eg(v1)". The zero expression renders as "0".
func (e Expr) String() string {
	atoms := e.Atoms()
	var b strings.Builder
	wrote := false
	for _, a := range atoms {
		c := e.coeffs[a]
		writeTerm(&b, c, string(a), wrote)
		wrote = true
	}
	if e.constant != nil && e.constant.Sign() != 0 {
		writeTerm(&b, e.constant, "", wrote)
		wrote = true
	}
	if !wrote {
		return "0"
	}
	return b.String()
}

func writeTerm(b *strings.Builder, c *big.Rat, atom string, wrote bool) {
	neg := c.Sign() < 0
	abs := new(big.Rat).Abs(c)
	switch {
	case !wrote && neg:
		b.WriteString("-")
	case wrote && neg:
		b.WriteString(" - ")
	case wrote:
		b.WriteString(" + ")
	}
	one := abs.Cmp(big.NewRat(1, 1)) == 0
	if atom == "" {
		b.WriteString(abs.RatString())
		return
	}
	if !one {
		b.WriteString(abs.RatString())
		b.WriteString("*")
	}
	b.WriteString(atom)
}
