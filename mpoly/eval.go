package mpoly

import (
	"math/big"
)

// Evaluate substitutes x_v = val. The variable count is kept.
func (p *Poly[E]) Evaluate(v int, val E) *Poly[E] {
	r := p.ring
	pows := []E{r.One()}
	terms := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exp[v]
		if e == 0 {
			terms = append(terms, t)
			continue
		}
		for len(pows) <= e {
			pows = append(pows, r.Mul(pows[len(pows)-1], val))
		}
		exp := append([]int(nil), t.Exp...)
		exp[v] = 0
		terms = append(terms, Term[E]{Exp: exp, Coef: r.Mul(t.Coef, pows[e])})
	}
	return FromTerms(r, p.nvars, p.order, terms)
}

// EvaluateMany substitutes x_vars[i] = vals[i].
func (p *Poly[E]) EvaluateMany(vars []int, vals []E) *Poly[E] {
	q := p
	for i, v := range vars {
		q = q.Evaluate(v, vals[i])
	}
	return q
}

// EvaluateAt substitutes all variables and returns the value.
func (p *Poly[E]) EvaluateAt(vals []E) E {
	r := p.ring
	acc := r.Zero()
	for _, t := range p.terms {
		c := t.Coef
		for i, e := range t.Exp {
			if e > 0 {
				c = r.Mul(c, powE(r.Mul, r.One(), vals[i], e))
			}
		}
		acc = r.Add(acc, c)
	}
	return acc
}

func powE[E any](mul func(a, b E) E, one, a E, e int) E {
	result := one
	for e > 0 {
		if e&1 == 1 {
			result = mul(result, a)
		}
		e >>= 1
		if e > 0 {
			a = mul(a, a)
		}
	}
	return result
}

// Substitute replaces x_v by q.
func (p *Poly[E]) Substitute(v int, q *Poly[E]) *Poly[E] {
	p.check(q)
	cs := p.AsUnivariate(v)
	acc := p.ZeroLike()
	for i := len(cs) - 1; i >= 0; i-- {
		acc = acc.Mul(q).Add(cs[i])
	}
	return acc
}

// Shift replaces x_v by x_v + b.
func (p *Poly[E]) Shift(v int, b E) *Poly[E] {
	return p.Substitute(v, p.VariableLike(v).AddConstant(b))
}

// Derivative returns the partial derivative in x_v.
func (p *Poly[E]) Derivative(v int) *Poly[E] {
	r := p.ring
	terms := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exp[v]
		if e == 0 {
			continue
		}
		c := r.Mul(t.Coef, r.FromInt64(int64(e)))
		if r.IsZero(c) {
			continue
		}
		exp := append([]int(nil), t.Exp...)
		exp[v]--
		terms = append(terms, Term[E]{Exp: exp, Coef: c})
	}
	q := p.withTerms(terms)
	q.sort()
	return q
}

// SeriesCoefficient returns the k-th Taylor coefficient at x_v = 0 of the
// derivative series, (1/k!) d^k p / dx_v^k, computed with binomials so it
// is valid in any characteristic.
func (p *Poly[E]) SeriesCoefficient(v, k int) *Poly[E] {
	if k == 0 {
		return p.Clone()
	}
	r := p.ring
	terms := make([]Term[E], 0, len(p.terms))
	for _, t := range p.terms {
		e := t.Exp[v]
		if e < k {
			continue
		}
		c := r.Mul(t.Coef, r.FromBig(new(big.Int).Binomial(int64(e), int64(k))))
		if r.IsZero(c) {
			continue
		}
		exp := append([]int(nil), t.Exp...)
		exp[v] -= k
		terms = append(terms, Term[E]{Exp: exp, Coef: c})
	}
	q := p.withTerms(terms)
	q.sort()
	return q
}
