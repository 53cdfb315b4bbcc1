package upoly

import (
	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
)

// IsSquareFree reports whether gcd(p, p') is constant.
func IsSquareFree[E any](p *Poly[E]) bool {
	if p.Degree() < 1 {
		return true
	}
	return GCD(p, p.Derivative()).IsConstant()
}

// SquareFree returns the square-free decomposition of p: factors are
// pairwise coprime, square-free and normalized; the unit carries the
// leading coefficient (field) or the signed content (Z).
func SquareFree[E any](p *Poly[E]) *decomp.Decomposition[*Poly[E]] {
	r := p.Ring
	if p.IsConstant() {
		return decomp.New(p)
	}
	f, unit := p.Normalize()
	out := decomp.New(unit)
	if r.Characteristic().Sign() == 0 {
		yun(f, out)
	} else {
		musser(f, out, 1)
	}
	return out
}

// yun is Yun's algorithm for characteristic zero; f is normalized.
func yun[E any](f *Poly[E], out *decomp.Decomposition[*Poly[E]]) {
	df := f.Derivative()
	b := GCD(f, df)
	c := mustDivide(f, b)
	d := mustDivide(df, b).Sub(c.Derivative())
	for i := 1; c.Degree() > 0; i++ {
		a := GCD(c, d)
		if a.Degree() > 0 {
			out.AddFactor(a, i)
		}
		c = mustDivide(c, a)
		d = mustDivide(d, a).Sub(c.Derivative())
	}
}

// musser handles characteristic p: the part of f with vanishing
// derivative is a p-th power and is recursed on after taking roots.
func musser[E any](f *Poly[E], out *decomp.Decomposition[*Poly[E]], mult int) {
	if f.Degree() < 1 {
		return
	}
	c := GCD(f, f.Derivative())
	w := mustDivide(f, c)
	for i := 1; w.Degree() > 0; i++ {
		y := GCD(w, c)
		z := mustDivide(w, y)
		if z.Degree() > 0 {
			out.AddFactor(z, i*mult)
		}
		w = y
		c = mustDivide(c, y)
	}
	if c.Degree() > 0 {
		p := int(f.Ring.Characteristic().Int64())
		musser(PthRoot(c), out, mult*p)
	}
}

// PthRoot returns g with g^p = f for a polynomial whose exponents are all
// multiples of the characteristic p of a finite field.
func PthRoot[E any](f *Poly[E]) *Poly[E] {
	r := f.Ring
	p := int(r.Characteristic().Int64())
	cs := make([]E, f.Degree()/p+1)
	for i := range cs {
		cs[i] = domain.PthRoot(r, f.Coef(i*p))
	}
	return New(r, cs...)
}

func mustDivide[E any](a, b *Poly[E]) *Poly[E] {
	q, ok := a.DivideExact(b)
	if !ok {
		panic("upoly: inexact division " + a.String() + " / " + b.String())
	}
	return q
}
