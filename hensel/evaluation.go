// Package hensel lifts factorizations known modulo the ideal
// I = (x_1 - b_1, ..., x_{n-1} - b_{n-1}) to factorizations modulo higher
// powers of I, and finally to exact multivariate factorizations.
//
// Variable 0 is always the main variable. The remaining variables are
// evaluation variables, lifted one at a time in increasing index order.
package hensel

import (
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/mpoly"
)

// Evaluation is a point (b_1, ..., b_{n-1}) for the variables 1..n-1 of
// polynomials with n variables. It caches the powers (x_v - b_v)^d.
//
// An Evaluation belongs to a single lifting attempt and is not safe for
// concurrent use.
type Evaluation[E any] struct {
	ring   domain.Ring[E]
	nvars  int
	order  *mpoly.Order
	values []E
	linear map[int][]*mpoly.Poly[E]
}

// NewEvaluation returns the point with values[i] assigned to variable i+1.
func NewEvaluation[E any](r domain.Ring[E], nvars int, ord *mpoly.Order, values []E) *Evaluation[E] {
	if len(values) != nvars-1 {
		panic("hensel: evaluation needs one value per non-main variable")
	}
	vs := make([]E, nvars)
	vs[0] = r.Zero()
	copy(vs[1:], values)
	return &Evaluation[E]{ring: r, nvars: nvars, order: ord, values: vs}
}

// Ring returns the coefficient ring.
func (ev *Evaluation[E]) Ring() domain.Ring[E] { return ev.ring }

// NVars returns the variable count of the polynomials this point applies to.
func (ev *Evaluation[E]) NVars() int { return ev.nvars }

// Value returns b_v.
func (ev *Evaluation[E]) Value(v int) E { return ev.values[v] }

// Values returns b_1..b_{n-1}.
func (ev *Evaluation[E]) Values() []E {
	return append([]E(nil), ev.values[1:]...)
}

// IsZero reports whether every b_v is zero.
func (ev *Evaluation[E]) IsZero() bool {
	for _, b := range ev.values[1:] {
		if !ev.ring.IsZero(b) {
			return false
		}
	}
	return true
}

// Evaluate substitutes x_v = b_v. The variable count is kept.
func (ev *Evaluation[E]) Evaluate(p *mpoly.Poly[E], v int) *mpoly.Poly[E] {
	if p.Degree(v) <= 0 {
		return p
	}
	return p.Evaluate(v, ev.values[v])
}

// EvaluateFrom substitutes x_v = b_v for all v >= from.
func (ev *Evaluation[E]) EvaluateFrom(p *mpoly.Poly[E], from int) *mpoly.Poly[E] {
	return ev.EvaluateFromExcept(p, from, -1)
}

// EvaluateFromExcept substitutes x_v = b_v for all v >= from except v ==
// except.
func (ev *Evaluation[E]) EvaluateFromExcept(p *mpoly.Poly[E], from, except int) *mpoly.Poly[E] {
	if from < 1 {
		from = 1
	}
	for v := ev.nvars - 1; v >= from; v-- {
		if v != except {
			p = ev.Evaluate(p, v)
		}
	}
	return p
}

// LinearPower returns (x_v - b_v)^d.
func (ev *Evaluation[E]) LinearPower(v, d int) *mpoly.Poly[E] {
	if ev.linear == nil {
		ev.linear = make(map[int][]*mpoly.Poly[E])
	}
	pows := ev.linear[v]
	if pows == nil {
		pows = []*mpoly.Poly[E]{mpoly.One(ev.ring, ev.nvars, ev.order)}
	}
	if len(pows) <= d {
		lin := mpoly.Variable(ev.ring, ev.nvars, ev.order, v).AddConstant(ev.ring.Neg(ev.values[v]))
		for len(pows) <= d {
			pows = append(pows, pows[len(pows)-1].Mul(lin))
		}
	}
	ev.linear[v] = pows
	return pows[d]
}

// TaylorCoefficient returns the coefficient of (x_v - b_v)^d in the
// expansion of p around b_v. The result does not depend on x_v.
func (ev *Evaluation[E]) TaylorCoefficient(p *mpoly.Poly[E], v, d int) *mpoly.Poly[E] {
	if p.Degree(v) < d {
		return p.ZeroLike()
	}
	if ev.ring.IsZero(ev.values[v]) {
		return p.CoefficientIn(v, d)
	}
	return p.SeriesCoefficient(v, d).Evaluate(v, ev.values[v])
}

// ModImage reduces p modulo (x_v - b_v)^k.
func (ev *Evaluation[E]) ModImage(p *mpoly.Poly[E], v, k int) *mpoly.Poly[E] {
	if p.Degree(v) < k {
		return p
	}
	if ev.ring.IsZero(ev.values[v]) {
		var terms []mpoly.Term[E]
		for _, t := range p.Terms() {
			if t.Exp[v] < k {
				terms = append(terms, t)
			}
		}
		return mpoly.FromTerms(ev.ring, ev.nvars, ev.order, terms)
	}
	acc := p.ZeroLike()
	for d := 0; d < k; d++ {
		c := ev.TaylorCoefficient(p, v, d)
		if !c.IsZero() {
			acc = acc.Add(c.Mul(ev.LinearPower(v, d)))
		}
	}
	return acc
}

// RenameVariables moves the value of variable i to perm[i]. perm must fix 0.
func (ev *Evaluation[E]) RenameVariables(perm []int) *Evaluation[E] {
	if perm[0] != 0 {
		panic("hensel: the main variable cannot be renamed")
	}
	vs := make([]E, ev.nvars)
	for i, b := range ev.values {
		vs[perm[i]] = b
	}
	return NewEvaluation(ev.ring, ev.nvars, ev.order, vs[1:])
}

// DropVariable removes variable v from the point.
func (ev *Evaluation[E]) DropVariable(v int) *Evaluation[E] {
	vs := make([]E, 0, ev.nvars-2)
	for i := 1; i < ev.nvars; i++ {
		if i != v {
			vs = append(vs, ev.values[i])
		}
	}
	return NewEvaluation(ev.ring, ev.nvars-1, ev.order, vs)
}

// WithRing maps the point into another ring, typically Z -> Z/p^k.
func WithRing[E, F any](ev *Evaluation[E], r domain.Ring[F], fn func(E) F) *Evaluation[F] {
	vs := make([]F, ev.nvars-1)
	for i, b := range ev.values[1:] {
		vs[i] = fn(b)
	}
	return NewEvaluation(r, ev.nvars, ev.order, vs)
}
