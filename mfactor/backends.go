package mfactor

import (
	"math/big"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/hensel"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
)

// fieldBackend drives the orchestrator over a finite field.
type fieldBackend[E any] struct {
	r   domain.Ring[E]
	rnd *domain.RNG
}

func newFieldBackend[E any](r domain.Ring[E], rnd *domain.RNG) *fieldBackend[E] {
	return &fieldBackend[E]{r: r, rnd: rnd}
}

func (b *fieldBackend[E]) ring() domain.Ring[E] { return b.r }
func (b *fieldBackend[E]) label() string        { return b.r.String() }
func (b *fieldBackend[E]) small() bool          { return isSmallField(b.r) }

func (b *fieldBackend[E]) point(n, attempt int) []E {
	vs := make([]E, n)
	for i := range vs {
		vs[i] = b.r.Random(b.rnd)
	}
	return vs
}

func (b *fieldBackend[E]) factorUnivariate(f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	return factorUnivariateField(f, b.rnd)
}

func (b *fieldBackend[E]) factorBivariate(f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	return factorBivariateField(f, b.rnd)
}

func (b *fieldBackend[E]) lift(base *mpoly.Poly[E], images, lcs []*mpoly.Poly[E], values []E) ([]*mpoly.Poly[E], error) {
	ev := hensel.NewEvaluation(b.r, base.NVars(), base.Order(), values)
	return hensel.Lift(base, images, lcs, ev, nil, 2)
}

func (b *fieldBackend[E]) liftAutomatic(base *mpoly.Poly[E], images []*mpoly.Poly[E], values []E) ([]*mpoly.Poly[E], error) {
	ev := hensel.NewEvaluation(b.r, base.NVars(), base.Order(), values)
	return hensel.LiftAutomaticLC(base, images, ev)
}

// zBackend drives the orchestrator over Z. Lifting runs modulo a prime
// power large enough for symmetric residues to recover the factors.
type zBackend struct {
	rnd *domain.RNG
}

func (b *zBackend) ring() domain.Ring[*big.Int] { return domain.Z }
func (b *zBackend) label() string               { return "Z" }
func (b *zBackend) small() bool                 { return false }

// point draws small integers; the range widens with the attempts.
func (b *zBackend) point(n, attempt int) []*big.Int {
	bound := uint64(5 + attempt/2)
	vs := make([]*big.Int, n)
	for i := range vs {
		vs[i] = big.NewInt(int64(b.rnd.Uint64n(2*bound+1)) - int64(bound))
	}
	return vs
}

func (b *zBackend) factorUnivariate(f *zpoly) ([]*zpoly, error) {
	return factorUnivariateZ(f), nil
}

func (b *zBackend) factorBivariate(f *zpoly) ([]*zpoly, error) {
	return factorBivariateZ(f, b.rnd)
}

func (b *zBackend) lift(base *zpoly, images, lcs []*zpoly, values []*big.Int) ([]*zpoly, error) {
	ev := hensel.NewEvaluation[*big.Int](domain.Z, base.NVars(), base.Order(), values)
	bound := coefficientBound(base)
	bound.Lsh(bound, 1)
	p := uint64(firstLiftPrime)
	for attempt := 0; attempt < maxPrimes; attempt++ {
		p = domain.NextPrime(p)
		zp := domain.MustZp64(p)
		if !unitsModulo(zp, images, ev) {
			continue
		}
		r, err := primePowerAbove(p, bound)
		if err != nil {
			return nil, errgo.Mask(err)
		}
		toR := func(c *zpoly) *zpoly { return mpoly.MapCoefficients(c, r, r.FromBig) }
		imgs := make([]*zpoly, len(images))
		for i, h := range images {
			imgs[i] = toR(h)
		}
		var ls []*zpoly
		if lcs != nil {
			ls = make([]*zpoly, len(lcs))
			for i, l := range lcs {
				ls[i] = toR(l)
			}
		}
		lifted, err := hensel.Lift(toR(base), imgs, ls, hensel.WithRing[*big.Int, *big.Int](ev, r, r.FromBig), nil, 2)
		if err != nil {
			if c := errgo.Cause(err); c == hensel.ErrNotCoprime || c == hensel.ErrNotInvertible {
				log.Debugf("mfactor: multivariate lift modulo %d failed: %v", p, err)
				metrics.RecordPrimeRestart("multivariate")
				continue
			}
			return nil, err
		}
		for i, h := range lifted {
			lifted[i] = mpoly.MapCoefficients(h, domain.Z, r.Symmetric)
		}
		return lifted, nil
	}
	return nil, errgo.WithCausef(nil, ErrExhausted, "no lifting prime for %s", base)
}

// unitsModulo reports whether the univariate images of the bivariate
// images keep their leading coefficients modulo the prime of zp.
func unitsModulo(zp *domain.Zp64, images []*zpoly, ev *hensel.Evaluation[*big.Int]) bool {
	for _, h := range images {
		if zp.FromBig(ev.Evaluate(h, 1).Lc()) == 0 {
			return false
		}
	}
	return true
}

// liftAutomatic lifts over Q and returns primitive integer factors.
func (b *zBackend) liftAutomatic(base *zpoly, images []*zpoly, values []*big.Int) ([]*zpoly, error) {
	qs := make([]*qpoly, len(images))
	for i, h := range images {
		qs[i] = toRational(h)
	}
	qv := make([]*big.Rat, len(values))
	for i, v := range values {
		qv[i] = new(big.Rat).SetInt(v)
	}
	ev := hensel.NewEvaluation[*big.Rat](domain.Q, base.NVars(), base.Order(), qv)
	lifted, err := hensel.LiftAutomaticLC(toRational(base), qs, ev)
	if err != nil {
		return nil, err
	}
	out := make([]*zpoly, len(lifted))
	for i, h := range lifted {
		z, _ := clearDenominators(h)
		out[i] = z.PrimitivePart()
	}
	return out, nil
}
