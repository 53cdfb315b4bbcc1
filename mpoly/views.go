package mpoly

import (
	"github.com/tueda/rings/upoly"
)

// AsUnivariate views p as a polynomial in x_v: the i-th entry is the
// coefficient of x_v^i, with x_v removed (exponent zero) and the variable
// count kept.
func (p *Poly[E]) AsUnivariate(v int) []*Poly[E] {
	d := p.Degree(v)
	buckets := make([][]Term[E], d+1)
	for _, t := range p.terms {
		e := t.Exp[v]
		exp := t.Exp
		if e != 0 {
			exp = append([]int(nil), t.Exp...)
			exp[v] = 0
		}
		buckets[e] = append(buckets[e], Term[E]{Exp: exp, Coef: t.Coef})
	}
	out := make([]*Poly[E], d+1)
	for i, ts := range buckets {
		// zeroing x_v can reorder terms under graded orders.
		q := p.withTerms(ts)
		q.sort()
		out[i] = q
	}
	return out
}

// FromUnivariate rebuilds sum coeffs[i] * x_v^i. Coefficients must not
// depend on x_v.
func (p *Poly[E]) FromUnivariate(v int, coeffs []*Poly[E]) *Poly[E] {
	var terms []Term[E]
	for i, c := range coeffs {
		for _, t := range c.terms {
			exp := t.Exp
			if i != 0 {
				exp = append([]int(nil), t.Exp...)
				exp[v] += i
			}
			terms = append(terms, Term[E]{Exp: exp, Coef: t.Coef})
		}
	}
	return FromTerms(p.ring, p.nvars, p.order, terms)
}

// CoefficientIn returns the coefficient of x_v^d, free of x_v.
func (p *Poly[E]) CoefficientIn(v, d int) *Poly[E] {
	var terms []Term[E]
	for _, t := range p.terms {
		if t.Exp[v] != d {
			continue
		}
		exp := t.Exp
		if d != 0 {
			exp = append([]int(nil), t.Exp...)
			exp[v] = 0
		}
		terms = append(terms, Term[E]{Exp: exp, Coef: t.Coef})
	}
	q := p.withTerms(terms)
	q.sort()
	return q
}

// LcIn returns the leading coefficient of p viewed as univariate in x_v.
func (p *Poly[E]) LcIn(v int) *Poly[E] {
	return p.CoefficientIn(v, p.Degree(v))
}

// SetLcIn replaces the leading coefficient in x_v by lc.
func (p *Poly[E]) SetLcIn(v int, lc *Poly[E]) *Poly[E] {
	d := p.Degree(v)
	exp := make([]int, p.nvars)
	exp[v] = d
	old := p.LcIn(v).MulMonomial(exp, p.ring.One())
	return p.Sub(old).Add(lc.MulMonomial(exp, p.ring.One()))
}

// DropVariable removes x_v, which must not occur.
func (p *Poly[E]) DropVariable(v int) *Poly[E] {
	terms := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		exp := make([]int, 0, p.nvars-1)
		exp = append(exp, t.Exp[:v]...)
		exp = append(exp, t.Exp[v+1:]...)
		terms[i] = Term[E]{Exp: exp, Coef: t.Coef}
	}
	q := &Poly[E]{ring: p.ring, nvars: p.nvars - 1, order: p.order, terms: terms}
	q.sort()
	return q
}

// InsertVariable inserts a new variable at index v.
func (p *Poly[E]) InsertVariable(v int) *Poly[E] {
	terms := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		exp := make([]int, 0, p.nvars+1)
		exp = append(exp, t.Exp[:v]...)
		exp = append(exp, 0)
		exp = append(exp, t.Exp[v:]...)
		terms[i] = Term[E]{Exp: exp, Coef: t.Coef}
	}
	q := &Poly[E]{ring: p.ring, nvars: p.nvars + 1, order: p.order, terms: terms}
	q.sort()
	return q
}

// SetNVars changes the variable count: new variables are appended, and
// removed ones must not occur.
func (p *Poly[E]) SetNVars(n int) *Poly[E] {
	terms := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		exp := make([]int, n)
		copy(exp, t.Exp)
		terms[i] = Term[E]{Exp: exp, Coef: t.Coef}
	}
	q := &Poly[E]{ring: p.ring, nvars: n, order: p.order, terms: terms}
	q.sort()
	return q
}

// RenameVariables moves variable i to position perm[i].
func (p *Poly[E]) RenameVariables(perm []int) *Poly[E] {
	terms := make([]Term[E], len(p.terms))
	for i, t := range p.terms {
		exp := make([]int, p.nvars)
		for j, e := range t.Exp {
			exp[perm[j]] = e
		}
		terms[i] = Term[E]{Exp: exp, Coef: t.Coef}
	}
	q := p.withTerms(terms)
	q.sort()
	return q
}

// SwapVariables exchanges x_i and x_j.
func (p *Poly[E]) SwapVariables(i, j int) *Poly[E] {
	if i == j {
		return p.Clone()
	}
	perm := Identity(p.nvars)
	perm[i], perm[j] = j, i
	return p.RenameVariables(perm)
}

// Identity returns the identity permutation of n variables.
func Identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// Inverse returns the inverse permutation.
func Inverse(perm []int) []int {
	inv := make([]int, len(perm))
	for i, j := range perm {
		inv[j] = i
	}
	return inv
}

// ToUpoly converts a polynomial in x_v alone to dense form.
func (p *Poly[E]) ToUpoly(v int) *upoly.Poly[E] {
	r := p.ring
	cs := make([]E, p.Degree(v)+1)
	for i := range cs {
		cs[i] = r.Zero()
	}
	for _, t := range p.terms {
		cs[t.Exp[v]] = r.Add(cs[t.Exp[v]], t.Coef)
	}
	return upoly.New(r, cs...)
}

// FromUpoly embeds f as a polynomial in x_v with the shape of p.
func (p *Poly[E]) FromUpoly(v int, f *upoly.Poly[E]) *Poly[E] {
	terms := make([]Term[E], 0, len(f.Coeffs))
	for i := len(f.Coeffs) - 1; i >= 0; i-- {
		c := f.Coeffs[i]
		if p.ring.IsZero(c) {
			continue
		}
		exp := make([]int, p.nvars)
		exp[v] = i
		terms = append(terms, Term[E]{Exp: exp, Coef: c})
	}
	q := p.withTerms(terms)
	q.sort()
	return q
}
