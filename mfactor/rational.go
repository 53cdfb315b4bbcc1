package mfactor

import (
	"math/big"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// maxNormShifts bounds the substitutions tried before the norm of a
// polynomial over a number field comes out square-free.
const maxNormShifts = 32

type (
	qpoly = mpoly.Poly[*big.Rat]
	// nfElem is an element of a number field, a rational polynomial in the
	// generator reduced modulo the minimal polynomial.
	nfElem = *upoly.Poly[*big.Rat]
	nfpoly = mpoly.Poly[nfElem]
)

func toRational(f *zpoly) *qpoly {
	return mpoly.MapCoefficients(f, domain.Q, domain.Q.FromBig)
}

// clearDenominators returns den*f with integer coefficients and den, the
// least common denominator.
func clearDenominators(f *qpoly) (*zpoly, *big.Int) {
	den := big.NewInt(1)
	for _, t := range f.Terms() {
		d := t.Coef.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	z := mpoly.MapCoefficients(f, domain.Z, func(c *big.Rat) *big.Int {
		v := new(big.Int).Mul(c.Num(), den)
		return v.Quo(v, c.Denom())
	})
	return z, den
}

// factorSquareFreeQ factors a square-free polynomial over Q through its
// primitive integer associate.
func factorSquareFreeQ(f *qpoly, rnd *domain.RNG) ([]*qpoly, error) {
	z, _ := clearDenominators(f)
	fs, err := factorSquareFree[*big.Int](&zBackend{rnd: rnd}, z.PrimitivePart())
	if err != nil {
		return nil, err
	}
	out := make([]*qpoly, len(fs))
	for i, h := range fs {
		out[i] = toRational(h).PrimitivePart()
	}
	return out, nil
}

// factorSquareFreeNumberField factors a square-free f over k by Trager's
// algorithm: after a shift x_v -> x_v - s*alpha the norm of f is
// square-free, and the gcds of the shifted f with the irreducible factors
// of the norm are the shifted irreducible factors of f. Factors free of
// x_v are left alone by the shift, so they are split off first as the
// content of f in x_v.
func factorSquareFreeNumberField(k *upoly.NumberField, f *nfpoly, rnd *domain.RNG) ([]*nfpoly, error) {
	if f.IsConstant() {
		return nil, nil
	}
	v := 0
	for i, used := range f.UsedVariables() {
		if used {
			v = i
			break
		}
	}
	if c := mpoly.ContentAlong(f, v); !c.IsConstant() {
		pp, ok := f.DivideExact(c)
		if !ok {
			return nil, errgo.Newf("mfactor: content %s does not divide %s", c, f)
		}
		log.Debugf("mfactor: splitting content %s in x_%d off %s", c, v, f)
		out, err := factorSquareFreeNumberField(k, c, rnd)
		if err != nil {
			return nil, err
		}
		rest, err := factorSquareFreeNumberField(k, pp, rnd)
		if err != nil {
			return nil, err
		}
		return append(out, rest...), nil
	}
	alpha := k.Generator()
	for try := 0; try < maxNormShifts; try++ {
		s := int64((try + 1) / 2)
		if try%2 == 0 {
			s = -s
		}
		shift := k.Mul(k.FromInt64(s), alpha)
		g := f.Shift(v, k.Neg(shift))
		n := norm(k, g)
		if !mpoly.IsSquareFree(n) {
			log.Debugf("mfactor: norm of %s is not square-free for shift %d", f, s)
			continue
		}
		ns, err := factorSquareFreeQ(n, rnd)
		if err != nil {
			return nil, err
		}
		if len(ns) <= 1 {
			return []*nfpoly{f}, nil
		}
		out := make([]*nfpoly, 0, len(ns))
		rest := g
		for i, h := range ns {
			if i == len(ns)-1 {
				out = append(out, rest.PrimitivePart().Shift(v, shift))
				break
			}
			c := mpoly.GCD(rest, mpoly.MapCoefficients(h, k, k.FromRational))
			if c.IsConstant() {
				continue
			}
			rest, _ = rest.DivideExact(c)
			out = append(out, c.Shift(v, shift))
		}
		return out, nil
	}
	return nil, errgo.WithCausef(nil, ErrExhausted, "no square-free norm for %s", f)
}

// norm returns N(g), the determinant of multiplication by g on Q[x]^d with
// the power basis of k.
func norm(k *upoly.NumberField, g *nfpoly) *qpoly {
	d := k.Degree()
	alpha := k.Generator()
	m := make([][]*qpoly, d)
	for i := range m {
		m[i] = make([]*qpoly, d)
	}
	col := g
	for j := 0; j < d; j++ {
		for i := 0; i < d; i++ {
			m[i][j] = mpoly.MapCoefficients(col, domain.Q, func(c nfElem) *big.Rat { return c.Coef(i) })
		}
		col = col.Scale(alpha)
	}
	return bareiss(m)
}

// bareiss computes a determinant by fraction-free elimination. Every
// division is exact.
func bareiss(m [][]*qpoly) *qpoly {
	n := len(m)
	sign := 1
	prev := m[0][0].One()
	for c := 0; c < n-1; c++ {
		if m[c][c].IsZero() {
			swap := -1
			for r := c + 1; r < n; r++ {
				if !m[r][c].IsZero() {
					swap = r
					break
				}
			}
			if swap < 0 {
				return m[0][0].ZeroLike()
			}
			m[c], m[swap] = m[swap], m[c]
			sign = -sign
		}
		for r := c + 1; r < n; r++ {
			for j := c + 1; j < n; j++ {
				num := m[r][j].Mul(m[c][c]).Sub(m[r][c].Mul(m[c][j]))
				m[r][j], _ = num.DivideExact(prev)
			}
		}
		prev = m[c][c]
	}
	det := m[n-1][n-1]
	if sign < 0 {
		det = det.Neg()
	}
	return det
}
