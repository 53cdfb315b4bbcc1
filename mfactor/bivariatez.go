package mfactor

import (
	"math/big"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/hensel"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// firstLiftPrime is where the search for a lifting prime starts.
const firstLiftPrime = 1 << 22

type zpoly = mpoly.Poly[*big.Int]

// factorBivariateZ factors a square-free primitive bivariate polynomial
// over Z. The integer factorization of a univariate image is lifted
// modulo (p^k, x_1^D) and recombined with symmetric residues.
func factorBivariateZ(f *zpoly, rnd *domain.RNG) ([]*zpoly, error) {
	factor := func(g *zpoly) ([]*zpoly, error) {
		if g.IsEffectivelyUnivariate() {
			return factorUnivariateZ(g), nil
		}
		return factorBivariateZ(g, rnd)
	}
	in, err := prepareBivariate(f.PrimitivePart(), factor)
	if err != nil || in.done {
		if err != nil {
			return nil, err
		}
		return in.content, nil
	}
	f = in.f

	var (
		best   []*upoly.Poly[*big.Int]
		bestY  *big.Int
		bestU  *upoly.Poly[*big.Int]
		images int
		lc     = f.LcIn(0)
		degree = f.Degree(0)
		tried  = map[int64]bool{}
	)
	for try := 0; images < univariateAttempts && try < 4*maxBivariateValues; try++ {
		y := int64(0)
		if try > 0 {
			bound := int64(2 + try/2)
			y = int64(rnd.Uint64n(uint64(2*bound+1))) - bound
		}
		if tried[y] {
			continue
		}
		tried[y] = true
		yb := big.NewInt(y)
		if lc.Evaluate(1, yb).IsZero() {
			continue
		}
		u := f.Evaluate(1, yb).ToUpoly(0)
		if u.Degree() != degree || !upoly.IsSquareFree(u) {
			metrics.RecordEvaluation("Z", false)
			metrics.RecordBivariateRetry("Z")
			continue
		}
		metrics.RecordEvaluation("Z", true)
		fs := upoly.FactorZ(u).Factors
		if len(fs) == 1 {
			return in.finish([]*zpoly{f}), nil
		}
		images++
		if best == nil || len(fs) < len(best) {
			best, bestY, bestU = fs, yb, u
		}
	}
	if best == nil {
		return nil, errgo.WithCausef(nil, ErrExhausted, "no good value for x1 in %s", f)
	}
	log.Debugf("mfactor: bivariate image at x1 = %s has %d integer factors", bestY, len(best))

	shifted := f.Shift(1, bestY)
	degreeBound := liftDegree(shifted)
	bound := coefficientBound(shifted.Mul(shifted.LcIn(0)))
	bound.Lsh(bound, 1)
	p := uint64(firstLiftPrime)
	for attempt := 0; attempt < maxPrimes; attempt++ {
		p = domain.NextPrime(p)
		zp := domain.MustZp64(p)
		if zp.FromBig(bestU.Lc()) == 0 || !upoly.IsSquareFree(upoly.Map(bestU, zp, zp.FromBig)) {
			continue
		}
		r, err := primePowerAbove(p, bound)
		if err != nil {
			return nil, errgo.Mask(err)
		}
		shiftedR := mpoly.MapCoefficients(shifted, r, r.FromBig)
		start := make([]*mpoly.Poly[*big.Int], len(best))
		for i, g := range best {
			m, ok := upoly.Map(g, r, r.FromBig).Monic()
			if !ok {
				return nil, errgo.Newf("mfactor: %s is not monic modulo %s", g, r.Modulus())
			}
			start[i] = shiftedR.FromUpoly(0, m)
		}
		lifted, err := hensel.LiftBivariateDense(shiftedR, start, degreeBound)
		if err != nil {
			log.Debugf("mfactor: bivariate lift modulo %d failed: %v", p, err)
			metrics.RecordPrimeRestart("bivariate")
			continue
		}
		toLifted := func(c *zpoly) *zpoly { return mpoly.MapCoefficients(c, r, r.FromBig) }
		toFactor := func(c *zpoly) *zpoly {
			return mpoly.PrimitivePartAlong(mpoly.MapCoefficients(c, domain.Z, r.Symmetric), 0)
		}
		fs := recombine(shifted, lifted[1:], degreeBound, toLifted, toFactor)
		minusY := new(big.Int).Neg(bestY)
		for i, h := range fs {
			fs[i] = h.Shift(1, minusY)
		}
		return in.finish(fs), nil
	}
	return nil, errgo.WithCausef(nil, ErrExhausted, "no lifting prime for %s", f)
}

// factorUnivariateZ factors a polynomial in a single variable over Z.
// Content is dropped.
func factorUnivariateZ(f *zpoly) []*zpoly {
	v := f.UnivariateVariable()
	if v < 0 {
		return nil
	}
	d := upoly.FactorZ(f.ToUpoly(v))
	var out []*zpoly
	for i, g := range d.Factors {
		h := f.FromUpoly(v, g)
		for j := 0; j < d.Exponents[i]; j++ {
			out = append(out, h)
		}
	}
	return out
}

// coefficientBound bounds the coefficients of every factor of f by
// 3^(sum of degrees) * |f|_1, a relaxed form of Gelfond's bound.
func coefficientBound(f *zpoly) *big.Int {
	norm := new(big.Int)
	for _, t := range f.Terms() {
		norm.Add(norm, new(big.Int).Abs(t.Coef))
	}
	total := 0
	for _, d := range f.Degrees() {
		total += d
	}
	return norm.Mul(norm, new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(total)), nil))
}

// primePowerAbove returns Z/p^k for the least k with p^k > bound.
func primePowerAbove(p uint64, bound *big.Int) (*domain.IntegersModulo, error) {
	bp := new(big.Int).SetUint64(p)
	k, m := 1, new(big.Int).Set(bp)
	for m.Cmp(bound) <= 0 {
		m.Mul(m, bp)
		k++
	}
	return domain.NewPrimePower(bp, k)
}
