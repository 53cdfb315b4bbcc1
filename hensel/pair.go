package hensel

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/mpoly"
)

// LiftPair lifts base = a*b modulo the evaluation ideal to base = A*B,
// where a and b are coprime images in x_0 alone. After moving the point
// to the origin, the corrections of total degree d in x_1..x_{n-1} solve
// a*dB + b*dA = e_d, with e_d the degree d part of the error, using one
// Bezout pair of a and b for every d.
//
// lcA, when not nil, is the leading coefficient in x_0 of A and must divide
// that of base. Otherwise a non-constant leading coefficient of base is
// imposed on both factors and divided out after the lift, which requires a
// field.
func LiftPair[E any](base, a, b, lcA *mpoly.Poly[E], ev *Evaluation[E]) (*mpoly.Poly[E], *mpoly.Poly[E], error) {
	r := base.Ring()
	lc := base.LcIn(0)
	target := base
	corrected := false
	var lcB *mpoly.Poly[E]
	switch {
	case lcA != nil:
		var ok bool
		if lcB, ok = lc.DivideExact(lcA); !ok {
			return nil, nil, errgo.WithCausef(nil, ErrNotLifted, "%s does not divide the leading coefficient %s", lcA, lc)
		}
	case lc.IsConstant():
		lcA = a.LcPoly()
		var ok bool
		if lcB, ok = lc.DivideExact(lcA); !ok {
			return nil, nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", a)
		}
	default:
		if !r.IsField() {
			return nil, nil, errgo.WithCausef(nil, ErrNotInvertible, "non-constant leading coefficient %s over %s", lc, r)
		}
		target = base.Mul(lc)
		lcA, lcB, corrected = lc, lc, true
	}

	ua, err := withLeading(a, ev.EvaluateFrom(lcA, 1))
	if err != nil {
		return nil, nil, err
	}
	ub, err := withLeading(b, ev.EvaluateFrom(lcB, 1))
	if err != nil {
		return nil, nil, err
	}
	if !ua.Mul(ub).Equal(ev.EvaluateFrom(target, 1)) {
		return nil, nil, errgo.WithCausef(nil, ErrNotLifted, "%s * %s is not the image of %s", a, b, base)
	}
	au, bu := ua.ToUpoly(0), ub.ToUpoly(0)
	s, _, err := Bezout(au, bu)
	if err != nil {
		return nil, nil, err
	}

	shift := func(p *mpoly.Poly[E], sign bool) *mpoly.Poly[E] {
		for v := 1; v < ev.nvars; v++ {
			if val := ev.values[v]; !r.IsZero(val) {
				if !sign {
					val = r.Neg(val)
				}
				p = p.Shift(v, val)
			}
		}
		return p
	}
	f := shift(target, true)
	la, lb := shift(lcA, true), shift(lcB, true)
	A, B := ua, ub
	for d := 1; d <= evaluationDegree(f); d++ {
		A = A.SetLcIn(0, upToDegree(la, d))
		B = B.SetLcIn(0, upToDegree(lb, d))
		e := ofDegree(f.Sub(A.Mul(B)), d)
		for _, m := range monomialsIn(e) {
			em := m.coef.ToUpoly(0)
			_, sigma, ok := em.Mul(s).DivRem(bu)
			if !ok {
				return nil, nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", bu)
			}
			tau, ok := em.Sub(sigma.Mul(au)).DivideExact(bu)
			if !ok {
				return nil, nil, errgo.WithCausef(nil, ErrNotCoprime, "%s does not split over %s", em, bu)
			}
			A = A.Add(A.FromUpoly(0, tau).MulMonomial(m.exp, r.One()))
			B = B.Add(B.FromUpoly(0, sigma).MulMonomial(m.exp, r.One()))
		}
	}
	A, B = shift(A, false), shift(B, false)
	if !A.Mul(B).Equal(target) {
		return nil, nil, errgo.WithCausef(nil, ErrNotLifted, "lifted pair does not multiply to %s", target)
	}
	if !corrected {
		return A, B, nil
	}
	A, B = mpoly.PrimitivePartAlong(A, 0), mpoly.PrimitivePartAlong(B, 0)
	unit, ok := base.DivideExact(A.Mul(B))
	if !ok || !unit.IsConstant() {
		return nil, nil, errgo.WithCausef(nil, ErrNotLifted, "content correction of %s", base)
	}
	return A.Mul(unit), B, nil
}

// withLeading scales the univariate f to the constant leading coefficient c.
func withLeading[E any](f, c *mpoly.Poly[E]) (*mpoly.Poly[E], error) {
	r := f.Ring()
	if c.IsZero() {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient vanishes at the point")
	}
	scale, ok := r.Quo(c.Lc(), f.Lc())
	if !ok {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", f)
	}
	return f.Scale(scale), nil
}

// evaluationDegree is the total degree of p in x_1..x_{n-1}.
func evaluationDegree[E any](p *mpoly.Poly[E]) int {
	d := 0
	for _, t := range p.Terms() {
		d = max(d, sumFrom(t.Exp, 1))
	}
	return d
}

func sumFrom(exp []int, from int) int {
	s := 0
	for _, e := range exp[from:] {
		s += e
	}
	return s
}

// ofDegree keeps the terms of total degree d in x_1..x_{n-1}.
func ofDegree[E any](p *mpoly.Poly[E], d int) *mpoly.Poly[E] {
	return filterTerms(p, func(exp []int) bool { return sumFrom(exp, 1) == d })
}

// upToDegree keeps the terms of total degree at most d in x_1..x_{n-1}.
func upToDegree[E any](p *mpoly.Poly[E], d int) *mpoly.Poly[E] {
	return filterTerms(p, func(exp []int) bool { return sumFrom(exp, 1) <= d })
}

func filterTerms[E any](p *mpoly.Poly[E], keep func([]int) bool) *mpoly.Poly[E] {
	var terms []mpoly.Term[E]
	for _, t := range p.Terms() {
		if keep(t.Exp) {
			terms = append(terms, t)
		}
	}
	return mpoly.FromTerms(p.Ring(), p.NVars(), p.Order(), terms)
}

// monomialPart is the coefficient in x_0 of one monomial in x_1..x_{n-1}.
type monomialPart[E any] struct {
	exp  []int
	coef *mpoly.Poly[E]
}

// monomialsIn splits p by its monomials in x_1..x_{n-1}.
func monomialsIn[E any](p *mpoly.Poly[E]) []monomialPart[E] {
	index := make(map[string]int)
	var parts []monomialPart[E]
	var terms [][]mpoly.Term[E]
	for _, t := range p.Terms() {
		exp := append([]int(nil), t.Exp...)
		exp[0] = 0
		k := expString(exp)
		i, ok := index[k]
		if !ok {
			i = len(parts)
			index[k] = i
			parts = append(parts, monomialPart[E]{exp: exp})
			terms = append(terms, nil)
		}
		x0 := make([]int, len(t.Exp))
		x0[0] = t.Exp[0]
		terms[i] = append(terms[i], mpoly.Term[E]{Exp: x0, Coef: t.Coef})
	}
	for i := range parts {
		parts[i].coef = mpoly.FromTerms(p.Ring(), p.NVars(), p.Order(), terms[i])
	}
	return parts
}

func expString(exp []int) string {
	b := make([]byte, 0, 4*len(exp))
	for _, e := range exp {
		b = append(b, byte(e), byte(e>>8), byte(e>>16), byte(e>>24))
	}
	return string(b)
}
