package hensel

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/mpoly"
)

var (
	// ErrNotCoprime means the images of the factors at the evaluation point
	// share a factor, so no Bezout identity exists. Callers choose another
	// point or prime.
	ErrNotCoprime = errgo.New("factor images are not coprime")

	// ErrNotInvertible means a leading coefficient is not a unit of the
	// coefficient ring, typically Z/p^k with p dividing it.
	ErrNotInvertible = errgo.New("leading coefficient is not invertible")

	// ErrNotLifted means the given images are not the images of a
	// factorization with the given leading coefficients.
	ErrNotLifted = errgo.New("factorization does not lift")
)

// Lift lifts factors of ev.EvaluateFrom(base, from), which live in the
// variables 0..from-1, to factors of base.
//
// When lcs is not nil, lcs[i] is the leading coefficient in x_0 of the i-th
// lifted factor and the product of lcs must equal the leading coefficient
// of base. Otherwise the leading coefficient of base must be constant and
// equal to the product of the (constant) leading coefficients of factors.
// degreeBounds holds the degree of base in each variable; nil computes it.
func Lift[E any](base *mpoly.Poly[E], factors, lcs []*mpoly.Poly[E], ev *Evaluation[E], degreeBounds []int, from int) ([]*mpoly.Poly[E], error) {
	if from < 1 {
		from = 1
	}
	if degreeBounds == nil {
		degreeBounds = base.Degrees()
	}
	us := append([]*mpoly.Poly[E](nil), factors...)
	for j := from; j < base.NVars(); j++ {
		target := ev.EvaluateFrom(base, j+1)
		images := append([]*mpoly.Poly[E](nil), us...)
		if lcs != nil {
			for i := range us {
				us[i] = us[i].SetLcIn(0, ev.EvaluateFrom(lcs[i], j+1))
			}
		}
		if degreeBounds[j] == 0 {
			continue
		}
		d, err := newDiophantine(images, j-1, ev, degreeBounds)
		if err != nil {
			return nil, err
		}
		e := target.Sub(product(us))
		for k := 1; k <= degreeBounds[j] && !e.IsZero(); k++ {
			c := ev.TaylorCoefficient(e, j, k)
			if c.IsZero() {
				continue
			}
			ds, err := d.solve(c, j-1)
			if err != nil {
				return nil, err
			}
			e = correct(us, ds, ev.LinearPower(j, k), e)
		}
		if !e.IsZero() {
			return nil, errgo.WithCausef(nil, ErrNotLifted, "residual in x%d: %s", j, e)
		}
	}
	return us, nil
}

// LiftAutomaticLC lifts univariate images of the factors of base without
// knowing their leading coefficients. A non-constant leading coefficient
// lc of base is imposed on every factor: base*lc^(r-1) is lifted and the
// surplus content is divided out afterwards, which requires a field.
func LiftAutomaticLC[E any](base *mpoly.Poly[E], factors []*mpoly.Poly[E], ev *Evaluation[E]) ([]*mpoly.Poly[E], error) {
	r := base.Ring()
	lc := base.LcIn(0)
	us := make([]*mpoly.Poly[E], len(factors))
	for i, f := range factors {
		m, ok := f.Monic()
		if !ok {
			return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", f)
		}
		us[i] = m
	}
	if len(us) == 2 && r.IsField() {
		a, b, err := LiftPair(base, us[0], us[1], nil, ev)
		if err != nil {
			return nil, err
		}
		return []*mpoly.Poly[E]{a, b}, nil
	}
	if lc.IsConstant() {
		us[0] = us[0].Scale(lc.Lc())
		return Lift(base, us, nil, ev, nil, 1)
	}
	if !r.IsField() {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "non-constant leading coefficient %s over %s", lc, r)
	}
	lcImage := ev.EvaluateFrom(lc, 1)
	if lcImage.IsZero() {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient %s vanishes", lc)
	}
	lcs := make([]*mpoly.Poly[E], len(us))
	for i := range us {
		us[i] = us[i].Scale(lcImage.Lc())
		lcs[i] = lc
	}
	lifted, err := Lift(base.Mul(lc.Pow(len(us)-1)), us, lcs, ev, nil, 1)
	if err != nil {
		return nil, err
	}
	for i, f := range lifted {
		lifted[i] = mpoly.PrimitivePartAlong(f, 0)
	}
	unit, ok := base.DivideExact(product(lifted))
	if !ok || !unit.IsConstant() {
		return nil, errgo.WithCausef(nil, ErrNotLifted, "content correction of %s", base)
	}
	lifted[0] = lifted[0].Mul(unit)
	return lifted, nil
}

// correct adds lp*ds[i] to every us[i] and returns e minus the change of
// the product of us. Factor i contributes lp*ds[i] times the product of the
// others, the earlier ones already corrected.
func correct[E any](us, ds []*mpoly.Poly[E], lp, e *mpoly.Poly[E]) *mpoly.Poly[E] {
	n := len(us)
	suffix := make([]*mpoly.Poly[E], n)
	suffix[n-1] = lp.One()
	for i := n - 2; i >= 0; i-- {
		suffix[i] = suffix[i+1].Mul(us[i+1])
	}
	prefix := lp.One()
	for i := range us {
		if !ds[i].IsZero() {
			delta := ds[i].Mul(lp)
			e = e.Sub(delta.Mul(prefix).Mul(suffix[i]))
			us[i] = us[i].Add(delta)
		}
		if i < n-1 {
			prefix = prefix.Mul(us[i])
		}
	}
	return e
}

func product[E any](ps []*mpoly.Poly[E]) *mpoly.Poly[E] {
	acc := ps[0]
	for _, p := range ps[1:] {
		acc = acc.Mul(p)
	}
	return acc
}
