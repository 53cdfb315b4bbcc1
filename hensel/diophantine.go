package hensel

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

// InverseMod returns s with s*a = 1 modulo m and deg s < deg m. Over a
// prime power ring Z/p^k the inverse is computed modulo p and refined by
// Newton iteration, which doubles the p-adic precision at every step.
func InverseMod[E any](a, m *upoly.Poly[E]) (*upoly.Poly[E], error) {
	r := a.Ring
	if r.IsField() {
		g, s, _, err := upoly.XGCD(a, m)
		if err != nil {
			return nil, errgo.Mask(err, errgo.Any)
		}
		if !g.IsOne() {
			return nil, errgo.WithCausef(nil, ErrNotCoprime, "gcd(%s, %s) = %s", a, m, g)
		}
		return s.Rem(m), nil
	}
	pr, ok := r.(domain.PrimePowerRing[E])
	if !ok {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "no inverses over %s", r)
	}
	res := pr.ResidueField()
	ra := upoly.Map(a, res, pr.ToResidue)
	rm := upoly.Map(m, res, pr.ToResidue)
	if rm.Degree() != m.Degree() {
		return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", m)
	}
	s0, err := InverseMod(ra, rm)
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	s := upoly.New(r, s0.Coeffs...)
	two := a.ConstantLike(r.FromInt64(2))
	for i := 0; i < 64; i++ {
		_, e, ok := a.Mul(s).DivRem(m)
		if !ok {
			return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", m)
		}
		if e.IsOne() {
			return s, nil
		}
		if _, s, ok = s.Mul(two.Sub(e)).DivRem(m); !ok {
			return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", m)
		}
	}
	return nil, errgo.WithCausef(nil, ErrNotInvertible, "Newton iteration for 1/(%s) mod %s", a, m)
}

// Bezout returns s, t with s*a + t*b = 1 and deg s < deg b, over fields and
// prime power rings.
func Bezout[E any](a, b *upoly.Poly[E]) (s, t *upoly.Poly[E], err error) {
	s, err = InverseMod(a, b)
	if err != nil {
		return nil, nil, err
	}
	t, ok := a.One().Sub(s.Mul(a)).DivideExact(b)
	if !ok {
		return nil, nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", b)
	}
	return s, t, nil
}

// uniSolver solves sum_i s_i * prod_{j != i} a_j = c for pairwise coprime
// univariate a_i. The equation is split into a telescoping chain of
// two-factor problems s_j * q_j + a_j * beta_j = beta_{j-1} with
// q_j = a_{j+1} * ... * a_{r-1}. When deg c < sum deg a_i every solution
// satisfies deg s_i < deg a_i.
type uniSolver[E any] struct {
	a   []*upoly.Poly[E]
	q   []*upoly.Poly[E]
	inv []*upoly.Poly[E]
}

func newUniSolver[E any](a []*upoly.Poly[E]) (*uniSolver[E], error) {
	n := len(a)
	q := make([]*upoly.Poly[E], n)
	q[n-1] = a[0].One()
	for j := n - 2; j >= 0; j-- {
		q[j] = q[j+1].Mul(a[j+1])
	}
	inv := make([]*upoly.Poly[E], n-1)
	for j := range inv {
		s, err := InverseMod(q[j], a[j])
		if err != nil {
			return nil, err
		}
		inv[j] = s
	}
	return &uniSolver[E]{a: a, q: q, inv: inv}, nil
}

func (u *uniSolver[E]) solve(c *upoly.Poly[E]) ([]*upoly.Poly[E], error) {
	out := make([]*upoly.Poly[E], len(u.a))
	beta := c
	for j := 0; j < len(u.a)-1; j++ {
		_, s, ok := beta.Mul(u.inv[j]).DivRem(u.a[j])
		if !ok {
			return nil, errgo.WithCausef(nil, ErrNotInvertible, "leading coefficient of %s", u.a[j])
		}
		next, ok := beta.Sub(s.Mul(u.q[j])).DivideExact(u.a[j])
		if !ok {
			return nil, errgo.WithCausef(nil, ErrNotCoprime, "%s does not split over %s", beta, u.a[j])
		}
		out[j], beta = s, next
	}
	out[len(u.a)-1] = beta
	return out, nil
}

// productsCache serves the cofactors prod_{j != i} a_j of a factor list
// from prefix and suffix products.
type productsCache[E any] struct {
	prefix []*mpoly.Poly[E]
	suffix []*mpoly.Poly[E]
	except []*mpoly.Poly[E]
}

func newProductsCache[E any](a []*mpoly.Poly[E]) *productsCache[E] {
	n := len(a)
	pc := &productsCache[E]{
		prefix: make([]*mpoly.Poly[E], n+1),
		suffix: make([]*mpoly.Poly[E], n+1),
		except: make([]*mpoly.Poly[E], n),
	}
	pc.prefix[0] = a[0].One()
	pc.suffix[n] = a[0].One()
	for i := 0; i < n; i++ {
		pc.prefix[i+1] = pc.prefix[i].Mul(a[i])
		pc.suffix[n-1-i] = pc.suffix[n-i].Mul(a[n-1-i])
	}
	return pc
}

// Except returns the product of all factors but the i-th.
func (pc *productsCache[E]) Except(i int) *mpoly.Poly[E] {
	if pc.except[i] == nil {
		pc.except[i] = pc.prefix[i].Mul(pc.suffix[i+1])
	}
	return pc.except[i]
}

// All returns the product of all factors.
func (pc *productsCache[E]) All() *mpoly.Poly[E] {
	return pc.prefix[len(pc.prefix)-1]
}

// combine returns sum_i s_i * prod_{j != i} a_j.
func (pc *productsCache[E]) combine(s []*mpoly.Poly[E]) *mpoly.Poly[E] {
	acc := pc.All().ZeroLike()
	for i, si := range s {
		if !si.IsZero() {
			acc = acc.Add(si.Mul(pc.Except(i)))
		}
	}
	return acc
}

// diophantine solves the multivariate equation sum_i s_i * prod_{j != i}
// a_j = c for factors a_i in the variables 0..top. Each evaluation
// variable is removed in turn, from top down to 1, and the solution is
// rebuilt degree by degree in (x_v - b_v).
type diophantine[E any] struct {
	ev     *Evaluation[E]
	bounds []int
	cache  []*productsCache[E]
	uni    *uniSolver[E]
}

func newDiophantine[E any](a []*mpoly.Poly[E], top int, ev *Evaluation[E], bounds []int) (*diophantine[E], error) {
	d := &diophantine[E]{ev: ev, bounds: bounds, cache: make([]*productsCache[E], top+1)}
	images := a
	for v := top; v >= 1; v-- {
		d.cache[v] = newProductsCache(images)
		next := make([]*mpoly.Poly[E], len(images))
		for i, f := range images {
			next[i] = ev.Evaluate(f, v)
		}
		images = next
	}
	us := make([]*upoly.Poly[E], len(images))
	for i, f := range images {
		us[i] = f.ToUpoly(0)
	}
	uni, err := newUniSolver(us)
	if err != nil {
		return nil, err
	}
	d.uni = uni
	return d, nil
}

func (d *diophantine[E]) solve(c *mpoly.Poly[E], v int) ([]*mpoly.Poly[E], error) {
	if v == 0 {
		us, err := d.uni.solve(c.ToUpoly(0))
		if err != nil {
			return nil, err
		}
		out := make([]*mpoly.Poly[E], len(us))
		for i, u := range us {
			out[i] = c.FromUpoly(0, u)
		}
		return out, nil
	}
	sigma, err := d.solve(d.ev.Evaluate(c, v), v-1)
	if err != nil {
		return nil, err
	}
	e := c.Sub(d.cache[v].combine(sigma))
	for m := 1; m <= d.bounds[v] && !e.IsZero(); m++ {
		cm := d.ev.TaylorCoefficient(e, v, m)
		if cm.IsZero() {
			continue
		}
		ds, err := d.solve(cm, v-1)
		if err != nil {
			return nil, err
		}
		lp := d.ev.LinearPower(v, m)
		for i := range ds {
			ds[i] = ds[i].Mul(lp)
			sigma[i] = sigma[i].Add(ds[i])
		}
		e = e.Sub(d.cache[v].combine(ds))
	}
	return sigma, nil
}
