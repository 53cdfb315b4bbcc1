package mpoly

import (
	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
)

// IsSquareFree reports whether p has no repeated factor.
func IsSquareFree[E any](p *Poly[E]) bool {
	if p.IsConstant() {
		return true
	}
	return derivativeGCD(p).IsConstant()
}

// derivativeGCD returns gcd(p, dp/dx_0, ..., dp/dx_{n-1}).
func derivativeGCD[E any](p *Poly[E]) *Poly[E] {
	c := p
	for v, used := range p.UsedVariables() {
		if !used {
			continue
		}
		c = GCD(c, p.Derivative(v))
		if c.IsConstant() {
			break
		}
	}
	return c
}

// SquareFree returns the square-free decomposition of p. The unit holds
// the removed content; monomial content is reported per variable.
func SquareFree[E any](p *Poly[E]) *decomp.Decomposition[*Poly[E]] {
	if p.IsConstant() {
		return decomp.New(p)
	}
	f, unit := p.Normalize()
	out := decomp.New(unit)
	mc := f.MonomialContent()
	for v, e := range mc {
		if e > 0 {
			out.AddFactor(f.VariableLike(v), e)
		}
	}
	f, _ = f.DivideMonomial(mc)
	musser(f, out, 1)
	return out
}

// musser splits f using gcd with all partial derivatives. In
// characteristic p the leftover is a p-th power and is recursed on after
// taking the root.
func musser[E any](f *Poly[E], out *decomp.Decomposition[*Poly[E]], mult int) {
	if f.IsConstant() {
		return
	}
	c := derivativeGCD(f)
	w := mustDivide(f, c)
	for i := 1; !w.IsConstant(); i++ {
		y := GCD(w, c)
		z := mustDivide(w, y)
		if !z.IsConstant() {
			out.AddFactor(z, i*mult)
		}
		w = y
		c = mustDivide(c, y)
	}
	if c.IsConstant() {
		return
	}
	ch := f.ring.Characteristic()
	if ch.Sign() == 0 {
		panic("mpoly: square-free leftover in characteristic zero: " + c.String())
	}
	musser(PthRoot(c), out, mult*int(ch.Int64()))
}

// PthRoot returns g with g^p = f, for f whose exponents are all multiples
// of the characteristic p of a finite field.
func PthRoot[E any](f *Poly[E]) *Poly[E] {
	r := f.ring
	p := int(r.Characteristic().Int64())
	terms := make([]Term[E], len(f.terms))
	for i, t := range f.terms {
		exp := make([]int, len(t.Exp))
		for k, e := range t.Exp {
			exp[k] = e / p
		}
		terms[i] = Term[E]{Exp: exp, Coef: domain.PthRoot(r, t.Coef)}
	}
	return f.withTerms(terms)
}

// IsPthPower reports whether every exponent is a multiple of the
// characteristic.
func IsPthPower[E any](f *Poly[E]) bool {
	ch := f.ring.Characteristic()
	if ch.Sign() == 0 || !ch.IsInt64() {
		return false
	}
	p := int(ch.Int64())
	for _, t := range f.terms {
		for _, e := range t.Exp {
			if e%p != 0 {
				return false
			}
		}
	}
	return true
}

func mustDivide[E any](a, b *Poly[E]) *Poly[E] {
	q, ok := a.DivideExact(b)
	if !ok {
		panic("mpoly: inexact division " + a.String() + " / " + b.String())
	}
	return q
}
