// Package factor is the entry point for polynomial factorization. The
// coefficient ring of the input selects the algorithm once per call.
package factor

import (
	"math/big"

	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/mfactor"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

var (
	// ErrUnsupportedRing is returned for rings without a factorization
	// algorithm.
	ErrUnsupportedRing = mfactor.ErrUnsupportedRing

	// ErrNotDivisible is returned by Divide.
	ErrNotDivisible = mpoly.ErrNotDivisible
)

type factorizer[E any] func(*mpoly.Poly[E], *domain.RNG) (*decomp.Decomposition[*mpoly.Poly[E]], error)

// resolve picks the factorization routine for r.
func resolve[E any](r domain.Ring[E]) (factorizer[E], error) {
	var fn any
	switch any(r).(type) {
	case *domain.Zp64:
		fn = factorizer[uint64](mfactor.FactorZp64)
	case *domain.GaloisField:
		fn = factorizer[kfield.Elem](mfactor.FactorGaloisField)
	case *domain.IntegersModulo:
		fn = factorizer[*big.Int](mfactor.FactorBigPrime)
	case *domain.Integers:
		fn = factorizer[*big.Int](mfactor.FactorZ)
	case *domain.Rationals:
		fn = factorizer[*big.Rat](mfactor.FactorQ)
	case *upoly.NumberField:
		fn = factorizer[*upoly.Poly[*big.Rat]](mfactor.FactorNumberField)
	}
	f, ok := fn.(factorizer[E])
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnsupportedRing, "%s", r)
	}
	return f, nil
}

type options struct {
	rnd *domain.RNG
}

// Option configures a factorization.
type Option func(*options)

// WithRNG makes the randomized steps draw from rnd instead of the process
// wide generator.
func WithRNG(rnd *domain.RNG) Option {
	return func(o *options) { o.rnd = rnd }
}

func newOptions(opts []Option) *options {
	o := &options{rnd: domain.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Factor returns the irreducible factorization of p in canonical form: the
// factors are normalized, sorted and carry their multiplicities, and the
// unit makes the product equal to p.
func Factor[E any](p *mpoly.Poly[E], opts ...Option) (*decomp.Decomposition[*mpoly.Poly[E]], error) {
	fn, err := resolve(p.Ring())
	if err != nil {
		return nil, err
	}
	return fn(p, newOptions(opts).rnd)
}

// FactorSquareFree returns the square-free decomposition of p.
func FactorSquareFree[E any](p *mpoly.Poly[E]) *decomp.Decomposition[*mpoly.Poly[E]] {
	return mpoly.SquareFree(p).Canonical()
}

// FactorUnivariate factors a univariate polynomial.
func FactorUnivariate[E any](u *upoly.Poly[E], opts ...Option) (*decomp.Decomposition[*upoly.Poly[E]], error) {
	p := mpoly.One(u.Ring, 1, mpoly.Lex).FromUpoly(0, u)
	d, err := Factor(p, opts...)
	if err != nil {
		return nil, err
	}
	return decomp.Map(d, func(h *mpoly.Poly[E]) *upoly.Poly[E] { return h.ToUpoly(0) }), nil
}

// GCD returns the normalized greatest common divisor of a and b.
func GCD[E any](a, b *mpoly.Poly[E]) *mpoly.Poly[E] {
	return mpoly.GCD(a, b)
}

// Divide returns a/b when b divides a exactly.
func Divide[E any](a, b *mpoly.Poly[E]) (*mpoly.Poly[E], error) {
	if b.IsZero() {
		return nil, errgo.WithCausef(nil, ErrNotDivisible, "division of %s by zero", a)
	}
	q, ok := a.DivideExact(b)
	if !ok {
		return nil, errgo.WithCausef(nil, ErrNotDivisible, "%s by %s", a, b)
	}
	return q, nil
}
