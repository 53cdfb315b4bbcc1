package mfactor

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/hensel"
	"github.com/tueda/rings/internal/combinat"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// bivariateInput is a bivariate square-free polynomial prepared for dense
// lifting: main variable 0 of maximal usable degree, no content along x_0.
type bivariateInput[E any] struct {
	f       *mpoly.Poly[E]
	swapped bool
	// content holds the factors split off before f was reached.
	content []*mpoly.Poly[E]
	// done is set when no lifting is needed.
	done bool
}

// prepareBivariate runs the steps shared by the field and integer
// algorithms: monomial content, the Newton polygon test, the choice of the
// main variable, derivative splits and content along x_0. Pieces split off
// are factored with factor.
func prepareBivariate[E any](f *mpoly.Poly[E], factor func(*mpoly.Poly[E]) ([]*mpoly.Poly[E], error)) (*bivariateInput[E], error) {
	in := &bivariateInput[E]{}
	mc := f.MonomialContent()
	for v, e := range mc {
		for i := 0; i < e; i++ {
			in.content = append(in.content, f.VariableLike(v))
		}
	}
	f, _ = f.DivideMonomial(mc)
	if f.IsEffectivelyUnivariate() {
		in.done = true
		if !f.IsConstant() {
			fs, err := factor(f)
			if err != nil {
				return nil, err
			}
			in.content = append(in.content, fs...)
		}
		return in, nil
	}
	if certainlyIrreducible(f) {
		in.done = true
		in.content = append(in.content, f)
		return in, nil
	}

	if f.Degree(1) > f.Degree(0) {
		f, in.swapped = f.SwapVariables(0, 1), true
	}
	if f.Derivative(0).IsZero() {
		f, in.swapped = f.SwapVariables(0, 1), !in.swapped
	}
	if a, b, ok := splitByDerivatives(f); ok {
		in.done = true
		for _, part := range []*mpoly.Poly[E]{a, b} {
			fs, err := factor(part)
			if err != nil {
				return nil, err
			}
			in.content = append(in.content, in.unswap(fs)...)
		}
		return in, nil
	}
	if c := mpoly.ContentAlong(f, 0); !c.IsConstant() {
		fs, err := factor(c)
		if err != nil {
			return nil, err
		}
		in.content = append(in.content, in.unswap(fs)...)
		f, _ = f.DivideExact(c)
		if f.IsEffectivelyUnivariate() {
			in.done = true
			fs, err := factor(f)
			if err != nil {
				return nil, err
			}
			in.content = append(in.content, in.unswap(fs)...)
			return in, nil
		}
	}
	in.f = f
	return in, nil
}

func (in *bivariateInput[E]) unswap(fs []*mpoly.Poly[E]) []*mpoly.Poly[E] {
	if !in.swapped {
		return fs
	}
	out := make([]*mpoly.Poly[E], len(fs))
	for i, h := range fs {
		out[i] = h.SwapVariables(0, 1)
	}
	return out
}

// finish maps lifted factors back to the caller's variables and appends
// the content factors.
func (in *bivariateInput[E]) finish(fs []*mpoly.Poly[E]) []*mpoly.Poly[E] {
	return append(in.unswap(fs), in.content...)
}

// liftDegree is the x_1-adic precision needed to read off any factor of f
// multiplied by the leading coefficient of f.
func liftDegree[E any](f *mpoly.Poly[E]) int {
	return f.Degree(1) + f.LcIn(0).Degree(1) + 1
}

// factorBivariateField factors a square-free bivariate polynomial over a
// finite field by dense Hensel lifting of a univariate image and
// recombination of the lifted factors.
func factorBivariateField[E any](f *mpoly.Poly[E], rnd *domain.RNG) ([]*mpoly.Poly[E], error) {
	factor := func(g *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
		if g.IsEffectivelyUnivariate() {
			return factorUnivariateField(g, rnd)
		}
		return factorBivariateField(g, rnd)
	}
	in, err := prepareBivariate(f, factor)
	if err != nil || in.done {
		if err != nil {
			return nil, err
		}
		return in.content, nil
	}
	f = in.f
	r := f.Ring()

	var (
		best     []*upoly.Poly[E]
		bestY    E
		images   int
		lc       = f.LcIn(0)
		degree   = f.Degree(0)
		card     = r.Cardinality()
		maxTries = maxBivariateValues
	)
	if card != nil && card.IsInt64() && card.Int64() < int64(maxTries) {
		maxTries = int(card.Int64())
	}
	tried := map[string]bool{}
	for try := 0; images < univariateAttempts && try < 4*maxTries && len(tried) < maxTries; try++ {
		y := r.Zero()
		if try > 0 {
			y = r.Random(rnd)
		}
		key := r.Format(y)
		if tried[key] {
			continue
		}
		tried[key] = true
		if lc.Evaluate(1, y).IsZero() {
			continue
		}
		u := f.Evaluate(1, y).ToUpoly(0)
		if u.Degree() != degree || !upoly.IsSquareFree(u) {
			metrics.RecordEvaluation(r.String(), false)
			metrics.RecordBivariateRetry(r.String())
			continue
		}
		metrics.RecordEvaluation(r.String(), true)
		monic, _ := u.Monic()
		fs := upoly.FactorSquareFreeFinite(monic, rnd)
		if len(fs) == 1 {
			return in.finish([]*mpoly.Poly[E]{f}), nil
		}
		images++
		if best == nil || len(fs) < len(best) {
			best, bestY = fs, y
		}
	}
	if best == nil {
		return nil, errgo.WithCausef(nil, ErrExhausted, "no good value for x1 in %s", f)
	}
	log.Debugf("mfactor: bivariate image at x1 = %s has %d factors", r.Format(bestY), len(best))

	shifted := f.Shift(1, bestY)
	degreeBound := liftDegree(shifted)
	start := make([]*mpoly.Poly[E], len(best))
	for i, u := range best {
		start[i] = shifted.FromUpoly(0, u)
	}
	lifted, err := hensel.LiftBivariateDense(shifted, start, degreeBound)
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	same := func(c *mpoly.Poly[E]) *mpoly.Poly[E] { return c }
	fs := recombine(shifted, lifted[1:], degreeBound, same, func(c *mpoly.Poly[E]) *mpoly.Poly[E] {
		return mpoly.PrimitivePartAlong(c, 0)
	})
	minusY := r.Neg(bestY)
	for i, h := range fs {
		fs[i] = h.Shift(1, minusY)
	}
	return in.finish(fs), nil
}

// recombine finds the factors of f among the products of subsets of
// lifted, which are monic modulo x_1^degree. toLifted maps a polynomial
// over the ring of f to the ring of lifted, and toFactor turns a truncated
// candidate back into a polynomial over the ring of f, or nil.
func recombine[E any](f *mpoly.Poly[E], lifted []*mpoly.Poly[E], degree int, toLifted, toFactor func(*mpoly.Poly[E]) *mpoly.Poly[E]) []*mpoly.Poly[E] {
	var out []*mpoly.Poly[E]
	rem := f
	for s := 1; 2*s <= len(lifted); s++ {
		it := combinat.New(len(lifted), s)
		for it.Next() {
			idx := it.Indices()
			cand := toLifted(rem.LcIn(0))
			for _, i := range idx {
				cand = hensel.Truncate(cand.Mul(lifted[i]), 1, degree)
			}
			h := toFactor(cand)
			if h == nil || h.IsConstant() {
				continue
			}
			q, ok := rem.DivideExact(h)
			if !ok {
				continue
			}
			out = append(out, h)
			rem = q
			lifted = combinat.Remove(lifted, idx)
			if 2*s > len(lifted) {
				break
			}
			it = combinat.New(len(lifted), s)
		}
	}
	if !rem.IsConstant() {
		out = append(out, rem)
	}
	return out
}

// factorUnivariateField factors a square-free polynomial in a single
// variable over a finite field.
func factorUnivariateField[E any](f *mpoly.Poly[E], rnd *domain.RNG) ([]*mpoly.Poly[E], error) {
	v := f.UnivariateVariable()
	if v < 0 {
		return nil, nil
	}
	u, ok := f.ToUpoly(v).Monic()
	if !ok {
		return nil, errgo.Newf("mfactor: leading coefficient of %s is not invertible", f)
	}
	fs := upoly.FactorSquareFreeFinite(u, rnd)
	out := make([]*mpoly.Poly[E], len(fs))
	for i, h := range fs {
		out[i] = f.FromUpoly(v, h)
	}
	return out, nil
}
