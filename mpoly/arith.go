package mpoly

import (
	"github.com/tueda/rings/domain"
)

func (p *Poly[E]) Add(o *Poly[E]) *Poly[E] {
	p.check(o)
	r := p.ring
	out := make([]Term[E], 0, len(p.terms)+len(o.terms))
	i, j := 0, 0
	for i < len(p.terms) && j < len(o.terms) {
		a, b := p.terms[i], o.terms[j]
		switch c := p.order.Compare(a.Exp, b.Exp); {
		case c > 0:
			out = append(out, a)
			i++
		case c < 0:
			out = append(out, b)
			j++
		default:
			if s := r.Add(a.Coef, b.Coef); !r.IsZero(s) {
				out = append(out, Term[E]{Exp: a.Exp, Coef: s})
			}
			i++
			j++
		}
	}
	out = append(out, p.terms[i:]...)
	out = append(out, o.terms[j:]...)
	return p.withTerms(out)
}

func (p *Poly[E]) Sub(o *Poly[E]) *Poly[E] {
	return p.Add(o.Neg())
}

func (p *Poly[E]) Neg() *Poly[E] {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		out[i] = Term[E]{Exp: t.Exp, Coef: p.ring.Neg(t.Coef)}
	}
	return p.withTerms(out)
}

// AddConstant returns p + c.
func (p *Poly[E]) AddConstant(c E) *Poly[E] {
	return p.Add(p.ConstantLike(c))
}

func (p *Poly[E]) Mul(o *Poly[E]) *Poly[E] {
	p.check(o)
	if p.IsZero() || o.IsZero() {
		return p.ZeroLike()
	}
	if o.IsConstant() {
		return p.Scale(o.terms[0].Coef)
	}
	if p.IsConstant() {
		return o.Scale(p.terms[0].Coef)
	}
	r := p.ring
	terms := make([]Term[E], 0, len(p.terms)*len(o.terms))
	for _, a := range p.terms {
		for _, b := range o.terms {
			terms = append(terms, Term[E]{Exp: addExp(a.Exp, b.Exp), Coef: r.Mul(a.Coef, b.Coef)})
		}
	}
	q := p.withTerms(aggregate(r, terms))
	q.sort()
	return q
}

func addExp(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Pow returns p^e.
func (p *Poly[E]) Pow(e int) *Poly[E] {
	result := p.One()
	base := p
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Scale multiplies every coefficient by c.
func (p *Poly[E]) Scale(c E) *Poly[E] {
	r := p.ring
	if r.IsZero(c) {
		return p.ZeroLike()
	}
	if r.IsOne(c) {
		return p.Clone()
	}
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if m := r.Mul(t.Coef, c); !r.IsZero(m) {
			out = append(out, Term[E]{Exp: t.Exp, Coef: m})
		}
	}
	return p.withTerms(out)
}

// DivideScalar divides every coefficient by c exactly.
func (p *Poly[E]) DivideScalar(c E) (*Poly[E], bool) {
	r := p.ring
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		q, ok := r.Quo(t.Coef, c)
		if !ok {
			return nil, false
		}
		if !r.IsZero(q) {
			out = append(out, Term[E]{Exp: t.Exp, Coef: q})
		}
	}
	return p.withTerms(out), true
}

// MulMonomial multiplies by c * x^exp.
func (p *Poly[E]) MulMonomial(exp []int, c E) *Poly[E] {
	r := p.ring
	out := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		if m := r.Mul(t.Coef, c); !r.IsZero(m) {
			out = append(out, Term[E]{Exp: addExp(t.Exp, exp), Coef: m})
		}
	}
	return p.withTerms(out)
}

// MulTerm multiplies by a single term.
func (p *Poly[E]) MulTerm(t Term[E]) *Poly[E] { return p.MulMonomial(t.Exp, t.Coef) }

// DivideMonomial divides by x^exp. It reports false when some term is not
// divisible.
func (p *Poly[E]) DivideMonomial(exp []int) (*Poly[E], bool) {
	out := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		e := make([]int, len(exp))
		for k := range exp {
			e[k] = t.Exp[k] - exp[k]
			if e[k] < 0 {
				return nil, false
			}
		}
		out[i] = Term[E]{Exp: e, Coef: t.Coef}
	}
	return p.withTerms(out), true
}

func dividesExp(a, b []int) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func subExp(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// DivideExact returns p/d when d divides p. Division runs on leading terms
// under the polynomial's own order.
func (p *Poly[E]) DivideExact(d *Poly[E]) (*Poly[E], bool) {
	p.check(d)
	if d.IsZero() {
		panic("mpoly: division by zero polynomial")
	}
	if p.IsZero() {
		return p.ZeroLike(), true
	}
	if d.IsConstant() {
		return p.DivideScalar(d.terms[0].Coef)
	}
	if d.IsMonomial() {
		q, ok := p.DivideMonomial(d.terms[0].Exp)
		if !ok {
			return nil, false
		}
		return q.DivideScalar(d.terms[0].Coef)
	}
	r := p.ring
	lt := d.terms[0]
	rem := p
	var quot []Term[E]
	for !rem.IsZero() {
		t := rem.terms[0]
		if !dividesExp(lt.Exp, t.Exp) {
			return nil, false
		}
		c, ok := r.Quo(t.Coef, lt.Coef)
		if !ok {
			return nil, false
		}
		e := subExp(t.Exp, lt.Exp)
		quot = append(quot, Term[E]{Exp: e, Coef: c})
		rem = rem.Sub(d.MulMonomial(e, c))
	}
	// quotient terms come out in descending order.
	return p.withTerms(quot), true
}

// Divides reports whether d divides p.
func (p *Poly[E]) Divides(d *Poly[E]) bool {
	_, ok := p.DivideExact(d)
	return ok
}

// Content returns the GCD of the coefficients.
func (p *Poly[E]) Content() E {
	r := p.ring
	if p.IsZero() {
		return r.Zero()
	}
	if r.IsField() {
		return r.One()
	}
	g := r.GCD(r.Zero(), p.terms[0].Coef)
	for _, t := range p.terms[1:] {
		if r.IsOne(g) {
			break
		}
		g = r.GCD(g, t.Coef)
	}
	return g
}

// Monic divides by the leading coefficient.
func (p *Poly[E]) Monic() (*Poly[E], bool) {
	if p.IsZero() {
		return p.Clone(), true
	}
	return p.DivideScalar(p.Lc())
}

// Normalize returns the monic associate over fields, and the primitive
// associate with positive leading coefficient otherwise, together with the
// constant removed.
func (p *Poly[E]) Normalize() (*Poly[E], *Poly[E]) {
	r := p.ring
	if p.IsZero() {
		return p.Clone(), p.One()
	}
	if r.IsField() {
		m, _ := p.Monic()
		return m, p.LcPoly()
	}
	c := p.Content()
	if r.Signum(p.Lc()) < 0 {
		c = r.Neg(c)
	}
	q, ok := p.DivideScalar(c)
	if !ok {
		return p.Clone(), p.One()
	}
	return q, p.ConstantLike(c)
}

// PrimitivePart is the normalized associate of p.
func (p *Poly[E]) PrimitivePart() *Poly[E] {
	n, _ := p.Normalize()
	return n
}

// MapCoefficients applies a ring homomorphism to every coefficient.
func MapCoefficients[E, F any](p *Poly[E], r domain.Ring[F], fn func(E) F) *Poly[F] {
	terms := make([]Term[F], 0, len(p.terms))
	for _, t := range p.terms {
		if c := fn(t.Coef); !r.IsZero(c) {
			terms = append(terms, Term[F]{Exp: t.Exp, Coef: c})
		}
	}
	return &Poly[F]{ring: r, nvars: p.nvars, order: p.order, terms: terms}
}
