// Package fieldext builds finite extensions of the finite fields of package
// domain together with the embedding of the base field, so that algorithms
// short of evaluation points or of splitting can move to a larger field and
// bring results defined over the base field back.
package fieldext

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/upoly"
)

// Extension is a finite field containing a copy of the field with elements
// E. Back fails for elements outside that copy.
type Extension[E any] struct {
	Field *domain.GaloisField
	To    func(E) kfield.Elem
	Back  func(kfield.Elem) (E, bool)
}

// Extender builds an extension of the given relative degree.
type Extender[E any] func(degree int, rnd *domain.RNG) (*Extension[E], error)

// For returns the extender of r when r is a finite field that can be
// extended.
func For[E any](r domain.Ring[E]) (Extender[E], bool) {
	var ext any
	switch f := any(r).(type) {
	case *domain.Zp64:
		ext = Zp64(f)
	case *domain.GaloisField:
		ext = Galois(f)
	default:
		return nil, false
	}
	e, ok := ext.(Extender[E])
	return e, ok
}

// Zp64 extends a prime field.
func Zp64(zp *domain.Zp64) Extender[uint64] {
	return func(degree int, rnd *domain.RNG) (*Extension[uint64], error) {
		gf, err := domain.NewRandomGaloisField(zp.Modulus(), degree, rnd)
		if err != nil {
			return nil, errgo.Mask(err)
		}
		k := gf.Field()
		return &Extension[uint64]{
			Field: gf,
			To:    func(c uint64) kfield.Elem { return k.EmbedF(c) },
			Back: func(e kfield.Elem) (uint64, bool) {
				if !k.IsBase(e) {
					return 0, false
				}
				return k.Coordinates(e)[0], true
			},
		}, nil
	}
}

// Galois extends GF(p^k) to GF(p^(k*degree)). The base field is embedded
// by sending its generator to a root of its modulus.
func Galois(base *domain.GaloisField) Extender[kfield.Elem] {
	bk := base.Field()
	return func(degree int, rnd *domain.RNG) (*Extension[kfield.Elem], error) {
		gf, err := domain.NewRandomGaloisField(bk.P, bk.K*degree, rnd)
		if err != nil {
			return nil, errgo.Mask(err)
		}
		k := gf.Field()
		chi := make([]kfield.Elem, len(bk.Chi))
		for i, c := range bk.Chi {
			chi[i] = k.EmbedF(c)
		}
		var alpha kfield.Elem
		found := false
		for _, l := range upoly.FactorSquareFreeFinite(upoly.New[kfield.Elem](gf, chi...), rnd) {
			if l.Degree() == 1 {
				alpha, found = k.Neg(l.Cc()), true
				break
			}
		}
		if !found {
			return nil, errgo.Newf("fieldext: %s has no root in %s", bk, k)
		}
		powers := make([]kfield.Elem, bk.K)
		powers[0] = k.One()
		for i := 1; i < bk.K; i++ {
			powers[i] = k.Mul(powers[i-1], alpha)
		}
		return &Extension[kfield.Elem]{
			Field: gf,
			To: func(c kfield.Elem) kfield.Elem {
				return k.EvalPoly(bk.Coordinates(c), alpha)
			},
			Back: func(e kfield.Elem) (kfield.Elem, bool) {
				coords, ok := k.Express(e, powers)
				if !ok {
					return kfield.Elem{}, false
				}
				return bk.FromCoordinates(coords), true
			},
		}, nil
	}
}
