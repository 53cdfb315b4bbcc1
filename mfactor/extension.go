package mfactor

import (
	"math/big"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/fieldext"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
)

// factorInExtension factors a square-free f over a finite field by
// factoring it over extensions of growing degree. The factors over the
// extension fall into orbits of the Frobenius map of the base field, and
// the product of each orbit is a factor over the base field.
func factorInExtension[E any](f *mpoly.Poly[E], ext fieldext.Extender[E], rnd *domain.RNG) ([]*mpoly.Poly[E], error) {
	q := f.Ring().Cardinality()
	var lastErr error
	for degree := extensionDegree; degree < extensionDegree+maxExtensions; degree++ {
		e, err := ext(degree, rnd)
		if err != nil {
			return nil, err
		}
		log.Debugf("mfactor: factoring %s over %s", f, e.Field)
		metrics.RecordExtension(strconv.Itoa(degree))
		fk := mpoly.MapCoefficients(f, e.Field, e.To)
		fs, err := factorSquareFree[kfield.Elem](newFieldBackend[kfield.Elem](e.Field, rnd), fk)
		if err != nil {
			if errgo.Cause(err) == ErrExhausted {
				lastErr = err
				continue
			}
			return nil, err
		}
		out := make([]*mpoly.Poly[E], 0, len(fs))
		for _, orbit := range frobeniusOrbits(e.Field, q, fs) {
			var bad bool
			h := mpoly.MapCoefficients(orbit, f.Ring(), func(c kfield.Elem) E {
				v, ok := e.Back(c)
				bad = bad || !ok
				return v
			})
			if bad {
				return nil, errgo.Newf("mfactor: orbit product %s is not defined over %s", orbit, f.Ring())
			}
			out = append(out, h)
		}
		return out, nil
	}
	return nil, errgo.WithCausef(lastErr, ErrExhausted, "no extension of degree below %d factors %s", extensionDegree+maxExtensions, f)
}

// frobeniusOrbits groups the factors fs of a polynomial defined over the
// subfield with q elements by the orbits of c -> c^q and returns the
// product of each orbit.
func frobeniusOrbits(gf *domain.GaloisField, q *big.Int, fs []*mpoly.Poly[kfield.Elem]) []*mpoly.Poly[kfield.Elem] {
	k := gf.Field()
	frob := func(p *mpoly.Poly[kfield.Elem]) *mpoly.Poly[kfield.Elem] {
		return mpoly.MapCoefficients(p, gf, func(c kfield.Elem) kfield.Elem { return k.Pow(c, q) })
	}
	monic := make([]*mpoly.Poly[kfield.Elem], len(fs))
	for i, h := range fs {
		monic[i] = h.PrimitivePart()
	}
	used := make([]bool, len(monic))
	var out []*mpoly.Poly[kfield.Elem]
	for i, h := range monic {
		if used[i] {
			continue
		}
		used[i] = true
		acc := h
		for c := frob(h); !c.Equal(h); c = frob(c) {
			for j := range monic {
				if !used[j] && monic[j].Equal(c) {
					used[j] = true
					break
				}
			}
			acc = acc.Mul(c)
		}
		out = append(out, acc)
	}
	return out
}
