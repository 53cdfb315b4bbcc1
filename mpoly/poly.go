// Package mpoly implements sparse multivariate polynomials over the rings
// of package domain.
//
// A polynomial is a list of terms sorted in descending monomial order. All
// operations return new polynomials; exponent vectors and coefficients are
// immutable and shared between copies. Binary operations panic with an
// error whose cause is domain.ErrDomainMismatch or ErrVariableMismatch when
// the operands disagree on ring, variable count or order.
package mpoly

import (
	"encoding/binary"
	"sort"

	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
)

var (
	// ErrVariableMismatch is the cause of panics for operands with
	// different variable counts or orders.
	ErrVariableMismatch = errgo.New("variable mismatch")

	// ErrNotDivisible is returned when an exact division leaves a
	// remainder.
	ErrNotDivisible = errgo.New("not divisible")
)

// Term is a coefficient times a monomial.
type Term[E any] struct {
	Exp  []int
	Coef E
}

// Poly is a sparse polynomial in NVars variables.
type Poly[E any] struct {
	ring  domain.Ring[E]
	nvars int
	order *Order
	terms []Term[E]
}

// Zero returns the zero polynomial.
func Zero[E any](r domain.Ring[E], nvars int, ord *Order) *Poly[E] {
	return &Poly[E]{ring: r, nvars: nvars, order: ord}
}

// Constant returns the constant c.
func Constant[E any](r domain.Ring[E], nvars int, ord *Order, c E) *Poly[E] {
	p := Zero(r, nvars, ord)
	if !r.IsZero(c) {
		p.terms = []Term[E]{{Exp: make([]int, nvars), Coef: c}}
	}
	return p
}

// One returns the constant one.
func One[E any](r domain.Ring[E], nvars int, ord *Order) *Poly[E] {
	return Constant(r, nvars, ord, r.One())
}

// Variable returns x_v.
func Variable[E any](r domain.Ring[E], nvars int, ord *Order, v int) *Poly[E] {
	exp := make([]int, nvars)
	exp[v] = 1
	return Monomial(r, ord, r.One(), exp)
}

// Monomial returns c * x^exp.
func Monomial[E any](r domain.Ring[E], ord *Order, c E, exp []int) *Poly[E] {
	p := Zero(r, len(exp), ord)
	if !r.IsZero(c) {
		p.terms = []Term[E]{{Exp: append([]int(nil), exp...), Coef: c}}
	}
	return p
}

// FromTerms builds a polynomial from unsorted terms, adding up repeated
// monomials.
func FromTerms[E any](r domain.Ring[E], nvars int, ord *Order, terms []Term[E]) *Poly[E] {
	p := Zero(r, nvars, ord)
	p.terms = aggregate(r, terms)
	p.sort()
	return p
}

func aggregate[E any](r domain.Ring[E], terms []Term[E]) []Term[E] {
	index := make(map[string]int, len(terms))
	out := make([]Term[E], 0, len(terms))
	for _, t := range terms {
		k := expKey(t.Exp)
		if i, ok := index[k]; ok {
			out[i].Coef = r.Add(out[i].Coef, t.Coef)
			continue
		}
		index[k] = len(out)
		out = append(out, t)
	}
	n := 0
	for _, t := range out {
		if !r.IsZero(t.Coef) {
			out[n] = t
			n++
		}
	}
	return out[:n]
}

func expKey(exp []int) string {
	buf := make([]byte, 0, 2*len(exp))
	for _, e := range exp {
		buf = binary.AppendUvarint(buf, uint64(e))
	}
	return string(buf)
}

func (p *Poly[E]) sort() {
	sort.Slice(p.terms, func(i, j int) bool {
		return p.order.Compare(p.terms[i].Exp, p.terms[j].Exp) > 0
	})
}

func (p *Poly[E]) withTerms(terms []Term[E]) *Poly[E] {
	return &Poly[E]{ring: p.ring, nvars: p.nvars, order: p.order, terms: terms}
}

func (p *Poly[E]) check(o *Poly[E]) {
	if !domain.Same(p.ring, o.ring) {
		panic(errgo.WithCausef(nil, domain.ErrDomainMismatch, "%s vs %s", p.ring, o.ring))
	}
	if p.nvars != o.nvars || p.order != o.order {
		panic(errgo.WithCausef(nil, ErrVariableMismatch,
			"%d/%s vs %d/%s variables", p.nvars, p.order, o.nvars, o.order))
	}
}

// Check returns an error when p and o cannot be combined.
func Check[E any](p, o *Poly[E]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	p.check(o)
	return nil
}

func (p *Poly[E]) Ring() domain.Ring[E] { return p.ring }
func (p *Poly[E]) NVars() int           { return p.nvars }
func (p *Poly[E]) Order() *Order        { return p.order }
func (p *Poly[E]) Size() int            { return len(p.terms) }

// Terms returns the terms in descending order. The slice must not be
// modified.
func (p *Poly[E]) Terms() []Term[E] { return p.terms }

func (p *Poly[E]) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p has no variable dependence.
func (p *Poly[E]) IsConstant() bool {
	return len(p.terms) == 0 || (len(p.terms) == 1 && isZeroExp(p.terms[0].Exp))
}

func (p *Poly[E]) IsOne() bool {
	return p.IsConstant() && !p.IsZero() && p.ring.IsOne(p.terms[0].Coef)
}

// IsMonomial reports whether p has at most one term.
func (p *Poly[E]) IsMonomial() bool { return len(p.terms) <= 1 }

func isZeroExp(exp []int) bool {
	for _, e := range exp {
		if e != 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy sharing exponents and coefficients.
func (p *Poly[E]) Clone() *Poly[E] {
	return p.withTerms(append([]Term[E](nil), p.terms...))
}

// SetOrder returns p re-sorted under ord.
func (p *Poly[E]) SetOrder(ord *Order) *Poly[E] {
	q := p.Clone()
	q.order = ord
	q.sort()
	return q
}

// ZeroLike returns zero with the shape of p.
func (p *Poly[E]) ZeroLike() *Poly[E] { return Zero(p.ring, p.nvars, p.order) }

// One returns one with the shape of p.
func (p *Poly[E]) One() *Poly[E] { return One(p.ring, p.nvars, p.order) }

// ConstantLike returns c with the shape of p.
func (p *Poly[E]) ConstantLike(c E) *Poly[E] { return Constant(p.ring, p.nvars, p.order, c) }

// VariableLike returns x_v with the shape of p.
func (p *Poly[E]) VariableLike(v int) *Poly[E] { return Variable(p.ring, p.nvars, p.order, v) }

// Lt returns the leading term. It panics on zero.
func (p *Poly[E]) Lt() Term[E] { return p.terms[0] }

// LtIn returns the leading term under ord.
func (p *Poly[E]) LtIn(ord *Order) Term[E] {
	best := p.terms[0]
	for _, t := range p.terms[1:] {
		if ord.Compare(t.Exp, best.Exp) > 0 {
			best = t
		}
	}
	return best
}

// Lc returns the leading coefficient, zero for the zero polynomial.
func (p *Poly[E]) Lc() E {
	if p.IsZero() {
		return p.ring.Zero()
	}
	return p.terms[0].Coef
}

// LcPoly returns the leading coefficient as a constant polynomial.
func (p *Poly[E]) LcPoly() *Poly[E] { return p.ConstantLike(p.Lc()) }

// Tt returns the trailing term. It panics on zero.
func (p *Poly[E]) Tt() Term[E] { return p.terms[len(p.terms)-1] }

// Cc returns the constant coefficient.
func (p *Poly[E]) Cc() E {
	if n := len(p.terms); n > 0 && isZeroExp(p.terms[n-1].Exp) {
		return p.terms[n-1].Coef
	}
	for _, t := range p.terms {
		if isZeroExp(t.Exp) {
			return t.Coef
		}
	}
	return p.ring.Zero()
}

// Degree returns the degree in x_v, 0 for the zero polynomial.
func (p *Poly[E]) Degree(v int) int {
	d := 0
	for _, t := range p.terms {
		d = max(d, t.Exp[v])
	}
	return d
}

// Degrees returns the degree in every variable.
func (p *Poly[E]) Degrees() []int {
	ds := make([]int, p.nvars)
	for _, t := range p.terms {
		for i, e := range t.Exp {
			ds[i] = max(ds[i], e)
		}
	}
	return ds
}

// TotalDegree returns the maximal total degree of a term.
func (p *Poly[E]) TotalDegree() int {
	d := 0
	for _, t := range p.terms {
		d = max(d, totalDegree(t.Exp))
	}
	return d
}

// Occurrences counts the terms that involve x_v.
func (p *Poly[E]) Occurrences(v int) int {
	n := 0
	for _, t := range p.terms {
		if t.Exp[v] > 0 {
			n++
		}
	}
	return n
}

// UniqueOccurrences counts the distinct positive exponents of x_v.
func (p *Poly[E]) UniqueOccurrences(v int) int {
	seen := map[int]bool{}
	for _, t := range p.terms {
		if t.Exp[v] > 0 {
			seen[t.Exp[v]] = true
		}
	}
	return len(seen)
}

// MonomialContent returns the componentwise minimum of the exponents.
func (p *Poly[E]) MonomialContent() []int {
	if p.IsZero() {
		return make([]int, p.nvars)
	}
	mc := append([]int(nil), p.terms[0].Exp...)
	for _, t := range p.terms[1:] {
		for i, e := range t.Exp {
			mc[i] = min(mc[i], e)
		}
	}
	return mc
}

// UsedVariables reports which variables occur in p.
func (p *Poly[E]) UsedVariables() []bool {
	used := make([]bool, p.nvars)
	for _, t := range p.terms {
		for i, e := range t.Exp {
			if e > 0 {
				used[i] = true
			}
		}
	}
	return used
}

// UnivariateVariable returns the only variable p depends on, or -1 when p
// is constant or multivariate.
func (p *Poly[E]) UnivariateVariable() int {
	v := -1
	for i, u := range p.UsedVariables() {
		if !u {
			continue
		}
		if v >= 0 {
			return -1
		}
		v = i
	}
	return v
}

// IsEffectivelyUnivariate reports whether p depends on at most one
// variable.
func (p *Poly[E]) IsEffectivelyUnivariate() bool {
	return p.IsConstant() || p.UnivariateVariable() >= 0
}

// Equal reports whether p and o have the same terms.
func (p *Poly[E]) Equal(o *Poly[E]) bool {
	if p.nvars != o.nvars || len(p.terms) != len(o.terms) {
		return false
	}
	for i, t := range p.terms {
		u := o.terms[i]
		if lexCompare(t.Exp, u.Exp) != 0 || !p.ring.Equal(t.Coef, u.Coef) {
			return false
		}
	}
	return true
}

// Compare is a total order: terms are compared from the top, monomials
// first, then coefficients; a polynomial that runs out of terms is smaller.
func (p *Poly[E]) Compare(o *Poly[E]) int {
	for i := 0; i < len(p.terms) && i < len(o.terms); i++ {
		if c := p.order.Compare(p.terms[i].Exp, o.terms[i].Exp); c != 0 {
			return c
		}
		if c := p.ring.Compare(p.terms[i].Coef, o.terms[i].Coef); c != 0 {
			return c
		}
	}
	switch {
	case len(p.terms) < len(o.terms):
		return -1
	case len(p.terms) > len(o.terms):
		return 1
	}
	return 0
}
