package mfactor

import (
	"math/big"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/fieldext"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// squareFreeFactorer factors one square-free part.
type squareFreeFactorer[E any] func(*mpoly.Poly[E]) ([]*mpoly.Poly[E], error)

// decompose runs the common pipeline: square-free decomposition, then
// factorization of every part. Factors are normalized and the unit is
// whatever is left of f.
func decompose[E any](f *mpoly.Poly[E], label string, factorPart squareFreeFactorer[E]) (d *decomp.Decomposition[*mpoly.Poly[E]], err error) {
	start := time.Now()
	defer func() {
		n := 0
		if d != nil {
			n = d.Size()
		}
		metrics.RecordFactorization(label, start, n, err)
	}()
	if f.IsConstant() {
		return decomp.New(f), nil
	}
	sqf := mpoly.SquareFree(f)
	out := decomp.New(f.One())
	for i, part := range sqf.Factors {
		fs, ferr := factorPart(part)
		if ferr != nil {
			return nil, errgo.Mask(ferr, errgo.Any)
		}
		for _, h := range fs {
			out.AddFactor(h.PrimitivePart(), sqf.Exponents[i])
		}
	}
	unit, ok := f.DivideExact(out.MultiplyOut())
	if !ok || !unit.IsConstant() {
		return nil, errgo.Newf("mfactor: factors of %s do not multiply back", f)
	}
	out.Unit = unit
	return out.Canonical(), nil
}

// escalating factors over the field of be and moves to extensions of the
// field when it runs out of evaluation points.
func escalating[E any](be backend[E], ext fieldext.Extender[E], rnd *domain.RNG) squareFreeFactorer[E] {
	return func(f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
		fs, err := factorSquareFree(be, f)
		if err == nil || errgo.Cause(err) != ErrExhausted || ext == nil {
			return fs, err
		}
		log.Debugf("mfactor: %s exhausted, switching to an extension field: %v", be.label(), err)
		return factorInExtension(f, ext, rnd)
	}
}

// FactorZp64 factors f over a word-sized prime field.
func FactorZp64(f *mpoly.Poly[uint64], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[uint64]], error) {
	zp, ok := f.Ring().(*domain.Zp64)
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", f.Ring())
	}
	return decompose(f, zp.String(), escalating[uint64](newFieldBackend[uint64](zp, rnd), fieldext.Zp64(zp), rnd))
}

// FactorGaloisField factors f over GF(p^k).
func FactorGaloisField(f *mpoly.Poly[kfield.Elem], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[kfield.Elem]], error) {
	gf, ok := f.Ring().(*domain.GaloisField)
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", f.Ring())
	}
	return decompose(f, gf.String(), escalating[kfield.Elem](newFieldBackend[kfield.Elem](gf, rnd), fieldext.Galois(gf), rnd))
}

// FactorBigPrime factors f over Z/p with an arbitrary precision prime p.
// Primes that fit a machine word are handled by FactorZp64.
func FactorBigPrime(f *mpoly.Poly[*big.Int], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[*big.Int]], error) {
	r, ok := f.Ring().(*domain.IntegersModulo)
	if !ok || !r.IsField() {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", f.Ring())
	}
	if p := r.Modulus(); p.IsUint64() {
		zp, err := domain.NewZp64(p.Uint64())
		if err != nil {
			return nil, errgo.Mask(err)
		}
		d, err := FactorZp64(mpoly.MapCoefficients(f, zp, zp.FromBig), rnd)
		if err != nil {
			return nil, err
		}
		toBig := func(c uint64) *big.Int { return new(big.Int).SetUint64(c) }
		return decomp.Map(d, func(h *mpoly.Poly[uint64]) *mpoly.Poly[*big.Int] {
			return mpoly.MapCoefficients(h, r, toBig)
		}).Canonical(), nil
	}
	return decompose(f, r.String(), escalating[*big.Int](newFieldBackend[*big.Int](r, rnd), nil, rnd))
}

// FactorZ factors f over the integers. The unit is the signed content.
func FactorZ(f *mpoly.Poly[*big.Int], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[*big.Int]], error) {
	if _, ok := f.Ring().(*domain.Integers); !ok {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", f.Ring())
	}
	be := &zBackend{rnd: rnd}
	return decompose(f, be.label(), func(p *zpoly) ([]*zpoly, error) {
		return factorSquareFree[*big.Int](be, p)
	})
}

// FactorQ factors f over the rationals into monic factors.
func FactorQ(f *mpoly.Poly[*big.Rat], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[*big.Rat]], error) {
	return decompose(f, "Q", func(p *qpoly) ([]*qpoly, error) {
		return factorSquareFreeQ(p, rnd)
	})
}

// FactorNumberField factors f over a simple algebraic extension of Q.
func FactorNumberField(f *mpoly.Poly[*upoly.Poly[*big.Rat]], rnd *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[*upoly.Poly[*big.Rat]]], error) {
	k, ok := f.Ring().(*upoly.NumberField)
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", f.Ring())
	}
	return decompose(f, k.String(), func(p *nfpoly) ([]*nfpoly, error) {
		return factorSquareFreeNumberField(k, p, rnd)
	})
}
