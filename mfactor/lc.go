package mfactor

import (
	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/hensel"
	"github.com/tueda/rings/mpoly"
)

// lcSplit is the part of the square-free leading coefficient that is
// primitive along variable. content is what is left for the later splits.
type lcSplit[E any] struct {
	variable  int
	content   *mpoly.Poly[E]
	primitive *mpoly.Poly[E]
}

// lcData describes the leading coefficient in x_0 of the polynomial being
// factored, split so that each piece can be recovered from a bivariate
// image in (x_0, x_v).
type lcData[E any] struct {
	lc      *mpoly.Poly[E]
	sqf     *decomp.Decomposition[*mpoly.Poly[E]]
	sqfPart *mpoly.Poly[E]
	splits  []lcSplit[E]
	// fullyReconstructable is set when every split was recovered at the
	// last evaluation point. Otherwise the lift imposes the whole leading
	// coefficient on every factor.
	fullyReconstructable bool
}

func newLCData[E any](lc *mpoly.Poly[E]) *lcData[E] {
	d := &lcData[E]{lc: lc, sqf: mpoly.SquareFree(lc)}
	d.sqfPart = lc.One()
	for _, f := range d.sqf.Factors {
		d.sqfPart = d.sqfPart.Mul(f)
	}
	rem := d.sqfPart
	for v := 1; v < lc.NVars(); v++ {
		if rem.Degree(v) == 0 {
			continue
		}
		c := mpoly.ContentAlong(rem, v)
		pp, _ := rem.DivideExact(c)
		d.splits = append(d.splits, lcSplit[E]{variable: v, content: c, primitive: pp})
		rem = c
	}
	return d
}

// gcdFreeBasis is a set of pairwise coprime polynomials held in an index
// arena. exps[j][i] is the exponent of polys[j] in the i-th owner.
type gcdFreeBasis[E any] struct {
	owners int
	polys  []*mpoly.Poly[E]
	exps   [][]int
}

func newGCDFreeBasis[E any](owners int) *gcdFreeBasis[E] {
	return &gcdFreeBasis[E]{owners: owners}
}

// add records s^e in owner. s must be square-free.
func (b *gcdFreeBasis[E]) add(s *mpoly.Poly[E], owner, e int) {
	for j := 0; j < len(b.polys) && !s.IsConstant(); j++ {
		g := mpoly.GCD(s, b.polys[j])
		if g.IsConstant() {
			continue
		}
		old := b.polys[j]
		if rest, _ := old.DivideExact(g); !rest.IsConstant() {
			b.polys = append(b.polys, rest.PrimitivePart())
			b.exps = append(b.exps, append([]int(nil), b.exps[j]...))
		}
		b.polys[j] = g.PrimitivePart()
		b.exps[j][owner] += e
		s, _ = s.DivideExact(g)
	}
	if !s.IsConstant() {
		exps := make([]int, b.owners)
		exps[owner] = e
		b.polys = append(b.polys, s.PrimitivePart())
		b.exps = append(b.exps, exps)
	}
}

// lcData returns the leading coefficient description, computed once per
// choice of variables.
func (o *orchestrator[E]) lcData() *lcData[E] {
	if o.lcd == nil {
		o.lcd = newLCData(o.lc)
	}
	return o.lcd
}

// reconstructLCs predicts the leading coefficients in x_0 of the factors
// whose bivariate images are bf. Splits are processed in order and the
// first one that cannot be recovered stops the reconstruction, leaving
// the remaining part of the leading coefficient unassigned.
func (o *orchestrator[E]) reconstructLCs(ev *hensel.Evaluation[E], bf []*mpoly.Poly[E]) []*mpoly.Poly[E] {
	d := o.lcData()
	lcs := make([]*mpoly.Poly[E], len(bf))
	for i := range lcs {
		lcs[i] = o.lc.One()
	}
	d.fullyReconstructable = true
	for _, s := range d.splits {
		next, ok := o.reconstructSplit(ev, bf, s, lcs)
		if !ok {
			d.fullyReconstructable = false
			break
		}
		lcs = next
	}
	return lcs
}

func (o *orchestrator[E]) reconstructSplit(ev *hensel.Evaluation[E], bf []*mpoly.Poly[E], s lcSplit[E], lcs []*mpoly.Poly[E]) ([]*mpoly.Poly[E], bool) {
	v := s.variable
	ppImage := ev.EvaluateFromExcept(s.primitive, 1, v)
	if ppImage.Degree(v) != s.primitive.Degree(v) || !mpoly.IsSquareFree(ppImage) {
		return nil, false
	}

	hs := bf
	if v != 1 {
		img := ev.EvaluateFromExcept(o.g, 1, v)
		if !mpoly.ContentAlong(img, 0).IsConstant() {
			return nil, false
		}
		fs, err := factorSquareFree(o.be, img)
		if err != nil || len(fs) != len(bf) {
			return nil, false
		}
		var ok bool
		if hs, ok = align(ev, bf, fs, v); !ok {
			return nil, false
		}
	}

	basis := newGCDFreeBasis[E](len(hs))
	for i, h := range hs {
		cur := ev.EvaluateFromExcept(lcs[i], 1, v).PrimitivePart()
		l, ok := h.LcIn(0).PrimitivePart().DivideExact(cur)
		if !ok {
			return nil, false
		}
		sqf := mpoly.SquareFree(l)
		for k, f := range sqf.Factors {
			basis.add(f, i, sqf.Exponents[k])
		}
	}
	if len(basis.polys) == 0 || !product(ppImage, basis.polys).PrimitivePart().Equal(ppImage.PrimitivePart()) {
		return nil, false
	}

	var lifted []*mpoly.Poly[E]
	if len(basis.polys) == 1 {
		lifted = []*mpoly.Poly[E]{s.primitive}
	} else {
		values := ev.Values()
		values[v-1] = o.be.ring().Zero()
		images := make([]*mpoly.Poly[E], len(basis.polys))
		for j, b := range basis.polys {
			images[j] = b.SwapVariables(0, v)
		}
		var err error
		lifted, err = o.be.liftAutomatic(s.primitive.SwapVariables(0, v), images, values)
		if err != nil {
			return nil, false
		}
		for j, l := range lifted {
			lifted[j] = l.SwapVariables(0, v)
		}
	}

	next := make([]*mpoly.Poly[E], len(lcs))
	for i := range lcs {
		next[i] = lcs[i]
		for j, l := range lifted {
			if e := basis.exps[j][i]; e > 0 {
				next[i] = next[i].Mul(l.Pow(e))
			}
		}
	}
	return next, true
}

// align reorders fs, the factors of a bivariate image in (x_0, x_v), so
// that the i-th entry and bf[i] reduce to the same univariate polynomial
// in x_0 at the evaluation point.
func align[E any](ev *hensel.Evaluation[E], bf, fs []*mpoly.Poly[E], v int) ([]*mpoly.Poly[E], bool) {
	keys := make([]*mpoly.Poly[E], len(fs))
	for j, h := range fs {
		keys[j] = ev.Evaluate(h, v).PrimitivePart()
	}
	out := make([]*mpoly.Poly[E], len(bf))
	used := make([]bool, len(fs))
	for i, b := range bf {
		kb := ev.Evaluate(b, 1).PrimitivePart()
		for j, h := range fs {
			if !used[j] && keys[j].Equal(kb) {
				out[i], used[j] = h, true
				break
			}
		}
		if out[i] == nil {
			return nil, false
		}
	}
	return out, true
}
