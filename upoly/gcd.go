package upoly

import (
	"gopkg.in/errgo.v1"
)

// Content returns the GCD of the coefficients. Over fields it is one for
// non-zero polynomials.
func (p *Poly[E]) Content() E {
	r := p.Ring
	if len(p.Coeffs) == 0 {
		return r.Zero()
	}
	if r.IsField() {
		return r.One()
	}
	g := r.GCD(r.Zero(), p.Coeffs[0])
	for _, c := range p.Coeffs[1:] {
		if r.IsOne(g) {
			break
		}
		g = r.GCD(g, c)
	}
	return g
}

// PrimitivePart divides out the content, keeping the sign of the leading
// coefficient positive. Over fields the result is monic.
func (p *Poly[E]) PrimitivePart() *Poly[E] {
	n, _ := p.Normalize()
	return n
}

func (p *Poly[E]) unitNormal() *Poly[E] {
	if p.IsZero() {
		return p.Clone()
	}
	if p.Ring.IsField() {
		m, _ := p.Monic()
		return m
	}
	if p.Ring.Signum(p.Lc()) < 0 {
		return p.Neg()
	}
	return p.Clone()
}

// GCD returns the normalized greatest common divisor of a and b. Over
// fields it runs Euclid's algorithm; over other rings (Z) a primitive
// pseudo-remainder sequence.
func GCD[E any](a, b *Poly[E]) *Poly[E] {
	a.check(b)
	if a.IsZero() {
		return b.unitNormal()
	}
	if b.IsZero() {
		return a.unitNormal()
	}
	if a.Ring.IsField() {
		for !b.IsZero() {
			a, b = b, a.Rem(b)
		}
		return a.PrimitivePart()
	}
	r := a.Ring
	cg := r.GCD(a.Content(), b.Content())
	a, b = a.PrimitivePart(), b.PrimitivePart()
	if a.Degree() < b.Degree() {
		a, b = b, a
	}
	for !b.IsZero() {
		rem := a.PseudoRem(b)
		a = b
		if rem.IsZero() {
			b = rem
		} else {
			b = rem.PrimitivePart()
		}
	}
	return a.PrimitivePart().Scale(cg)
}

// GCDAll returns the GCD of all polynomials.
func GCDAll[E any](ps ...*Poly[E]) *Poly[E] {
	g := ps[0]
	for _, p := range ps[1:] {
		if g.IsConstant() && !g.IsZero() {
			break
		}
		g = GCD(g, p)
	}
	return g
}

// XGCD returns g = gcd(a, b) (monic) and s, t with s*a + t*b = g. The ring
// must be a field.
func XGCD[E any](a, b *Poly[E]) (g, s, t *Poly[E], err error) {
	a.check(b)
	r := a.Ring
	if !r.IsField() {
		return nil, nil, nil, errgo.Newf("upoly: extended GCD over %s", r)
	}
	r0, r1 := a, b
	s0, s1 := a.One(), Zero(r)
	t0, t1 := Zero(r), a.One()
	for !r1.IsZero() {
		q, rem, ok := r0.DivRem(r1)
		if !ok {
			return nil, nil, nil, errgo.WithCausef(nil, ErrNotDivisible, "%s", r1)
		}
		r0, r1 = r1, rem
		s0, s1 = s1, s0.Sub(q.Mul(s1))
		t0, t1 = t1, t0.Sub(q.Mul(t1))
	}
	if r0.IsZero() {
		return r0, s0, t0, nil
	}
	lc := r0.Lc()
	g, _ = r0.DivideScalar(lc)
	s, _ = s0.DivideScalar(lc)
	t, _ = t0.DivideScalar(lc)
	return g, s, t, nil
}

// Bezout returns s, t with s*a + t*b = 1, deg s < deg b and deg t < deg a.
func Bezout[E any](a, b *Poly[E]) (s, t *Poly[E], err error) {
	g, s, t, err := XGCD(a, b)
	if err != nil {
		return nil, nil, err
	}
	if !g.IsOne() {
		return nil, nil, errgo.WithCausef(nil, ErrNotCoprime, "gcd %s", g)
	}
	return s, t, nil
}
