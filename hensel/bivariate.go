package hensel

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// LiftBivariateDense lifts monic factors of base(x_0, 0) to factors of base
// modulo x_1^degree. base must be bivariate, already shifted so that the
// expansion point is x_1 = 0, with a leading coefficient in x_0 that is a
// unit at x_1 = 0. factors are univariate in x_0 and pairwise coprime, and
// their degrees add up to the degree of base in x_0.
//
// The leading coefficient of base is carried as an extra factor of degree
// zero in x_0: the result holds lc(base) mod x_1^degree at index 0 followed
// by the lifted monic factors, and their product equals base modulo
// x_1^degree.
func LiftBivariateDense[E any](base *mpoly.Poly[E], factors []*mpoly.Poly[E], degree int) ([]*mpoly.Poly[E], error) {
	r := base.Ring()
	lc := Truncate(base.LcIn(0), 1, degree)
	lc0 := lc.Evaluate(1, r.Zero()).Cc()
	inv, ok := r.Quo(r.One(), lc0)
	if !ok {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient %s at 0", lc)
	}
	images := make([]*upoly.Poly[E], len(factors))
	us := make([]*mpoly.Poly[E], len(factors))
	for i, f := range factors {
		images[i] = f.ToUpoly(0)
		us[i] = f
	}
	uni, err := newUniSolver(images)
	if err != nil {
		return nil, err
	}
	for k := 1; k < degree; k++ {
		prod := lc
		for _, u := range us {
			prod = Truncate(prod.Mul(u), 1, k+1)
		}
		c := base.Sub(prod).CoefficientIn(1, k)
		if c.IsZero() {
			continue
		}
		sols, err := uni.solve(c.Scale(inv).ToUpoly(0))
		if err != nil {
			return nil, err
		}
		exp := make([]int, base.NVars())
		exp[1] = k
		for i, s := range sols {
			if !s.IsZero() {
				us[i] = us[i].Add(base.FromUpoly(0, s).MulMonomial(exp, r.One()))
			}
		}
	}
	return append([]*mpoly.Poly[E]{lc}, us...), nil
}

// Truncate drops the terms of p whose degree in x_v is at least k, which
// reduces p modulo x_v^k.
func Truncate[E any](p *mpoly.Poly[E], v, k int) *mpoly.Poly[E] {
	if p.Degree(v) < k {
		return p
	}
	var terms []mpoly.Term[E]
	for _, t := range p.Terms() {
		if t.Exp[v] < k {
			terms = append(terms, t)
		}
	}
	return mpoly.FromTerms(p.Ring(), p.NVars(), p.Order(), terms)
}
