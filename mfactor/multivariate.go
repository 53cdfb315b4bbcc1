package mfactor

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/hensel"
	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/mpoly"
)

// errInconsistent marks a bivariate factorization that is not the image
// of a factorization with the predicted leading coefficients.
var errInconsistent = errgo.New("inconsistent bivariate factorization")

// factorMultivariate factors a square-free f that uses all of its n >= 3
// variables.
func factorMultivariate[E any](be backend[E], f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	perm := variableOrder(f)
	fs, err := factorOrdered(be, f.RenameVariables(perm))
	if err != nil {
		return nil, err
	}
	inv := mpoly.Inverse(perm)
	for i, h := range fs {
		fs[i] = h.RenameVariables(inv)
	}
	return fs, nil
}

// variableOrder moves the variable of highest degree with a non-zero
// derivative to position 0. The others follow by decreasing number of
// terms they occur in.
func variableOrder[E any](f *mpoly.Poly[E]) []int {
	n := f.NVars()
	degs := f.Degrees()
	main := -1
	for v := 0; v < n; v++ {
		if f.Derivative(v).IsZero() {
			continue
		}
		if main < 0 || degs[v] > degs[main] {
			main = v
		}
	}
	if main < 0 {
		main = 0
	}
	rest := make([]int, 0, n-1)
	occ := make([]int, n)
	for v := 0; v < n; v++ {
		if v != main {
			rest = append(rest, v)
			occ[v] = f.Occurrences(v)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if occ[a] != occ[b] {
			return occ[a] > occ[b]
		}
		return degs[a] > degs[b]
	})
	perm := make([]int, n)
	perm[main] = 0
	for i, v := range rest {
		perm[v] = i + 1
	}
	return perm
}

// factorOrdered splits off content along x_0 and derivative gcds before
// running the evaluation loop.
func factorOrdered[E any](be backend[E], g *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	if c := mpoly.ContentAlong(g, 0); !c.IsConstant() {
		pp, _ := g.DivideExact(c)
		return factorParts(be, c, pp)
	}
	if a, b, ok := splitByDerivatives(g); ok {
		return factorParts(be, a, b)
	}
	o := &orchestrator[E]{be: be, g: g, n: g.NVars(), lc: g.LcIn(0)}
	return o.run()
}

func factorParts[E any](be backend[E], parts ...*mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	var out []*mpoly.Poly[E]
	for _, p := range parts {
		fs, err := factorSquareFree(be, p)
		if err != nil {
			return nil, err
		}
		out = append(out, fs...)
	}
	return out, nil
}

// orchestrator runs the evaluation loop for one primitive square-free
// polynomial with main variable x_0.
type orchestrator[E any] struct {
	be  backend[E]
	g   *mpoly.Poly[E]
	n   int
	lc  *mpoly.Poly[E]
	lcd *lcData[E]
	// swaps lists the variables exchanged with x_1, in order.
	swaps []int
}

func (o *orchestrator[E]) run() ([]*mpoly.Poly[E], error) {
	var (
		r            = o.be.ring()
		counts       = newImageCount()
		fails        int
		inconsistent int
		switches     int
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if fails >= maxFails(o.be) || o.be.small() && inconsistent >= maxInconsistentImages {
			break
		}
		ev := hensel.NewEvaluation(r, o.n, o.g.Order(), o.be.point(o.n-1, fails))
		im, ok := o.image(ev)
		metrics.RecordEvaluation(o.be.label(), ok)
		if !ok {
			fails++
			continue
		}
		bf, err := factorSquareFree(o.be, im)
		if err != nil {
			if errgo.Cause(err) == ErrExhausted && o.be.small() {
				return nil, err
			}
			log.Debugf("mfactor: bivariate image %s: %v", im, err)
			fails++
			continue
		}
		if len(bf) == 1 {
			return o.restore([]*mpoly.Poly[E]{o.g}), nil
		}
		if lift, switchVar := counts.admit(len(bf)); !lift {
			if switchVar {
				switches++
				o.switchSecond(2 + (switches-1)%(o.n-2))
			}
			continue
		}
		sortFactors(bf)
		fs, err := o.liftImage(ev, bf)
		if err == nil {
			return o.restore(fs), nil
		}
		log.Debugf("mfactor: %d bivariate factors do not lift: %v", len(bf), err)
		inconsistent++
		counts.failed(len(bf))
	}
	return nil, errgo.WithCausef(nil, ErrExhausted, "%d rejected points and %d inconsistent images for %s", fails, inconsistent, o.g)
}

// imageCount tracks the fewest bivariate factors seen so far. Images with
// more factors are superfluous and are not lifted.
type imageCount struct {
	min         int
	superfluous int
}

func newImageCount() *imageCount {
	return &imageCount{min: math.MaxInt}
}

// admit reports whether an image with n factors should be lifted, and
// whether enough superfluous images were seen to try another second
// variable.
func (c *imageCount) admit(n int) (lift, switchVar bool) {
	if n > c.min {
		c.superfluous++
		if c.superfluous >= superfluousBeforeSwitch {
			c.superfluous = 0
			return false, true
		}
		return false, false
	}
	if n < c.min {
		c.min, c.superfluous = n, 0
	}
	return true, false
}

// failed records that an image with n factors did not lift, so at least
// one of its factors is spurious.
func (c *imageCount) failed(n int) {
	c.min, c.superfluous = n-1, 0
}

// image returns the bivariate image in (x_0, x_1) at ev when the point is
// usable: the leading coefficient in x_0 does not vanish, the image has
// no content along x_0 and the univariate image is square-free, which
// makes the bivariate image square-free too.
func (o *orchestrator[E]) image(ev *hensel.Evaluation[E]) (*mpoly.Poly[E], bool) {
	if ev.EvaluateFrom(o.lc, 1).IsZero() {
		return nil, false
	}
	im := ev.EvaluateFrom(o.g, 2)
	if !mpoly.ContentAlong(im, 0).IsConstant() {
		return nil, false
	}
	if !mpoly.IsSquareFree(ev.Evaluate(im, 1)) {
		return nil, false
	}
	return im, true
}

// switchSecond exchanges x_1 with x_v.
func (o *orchestrator[E]) switchSecond(v int) {
	log.Debugf("mfactor: too many superfluous factors, using x%d as second variable", v)
	o.g = o.g.SwapVariables(1, v)
	o.lc = o.g.LcIn(0)
	o.lcd = nil
	o.swaps = append(o.swaps, v)
}

func (o *orchestrator[E]) restore(fs []*mpoly.Poly[E]) []*mpoly.Poly[E] {
	for i := len(o.swaps) - 1; i >= 0; i-- {
		for j, h := range fs {
			fs[j] = h.SwapVariables(1, o.swaps[i])
		}
	}
	return fs
}

// liftImage lifts bf with reconstructed leading coefficients. When some
// split of the leading coefficient could not be recovered, or the lift
// with the reconstructed ones fails, the whole leading coefficient is
// imposed on every factor instead.
func (o *orchestrator[E]) liftImage(ev *hensel.Evaluation[E], bf []*mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	ones := make([]*mpoly.Poly[E], len(bf))
	for i := range ones {
		ones[i] = o.lc.One()
	}
	if o.lc.IsConstant() {
		return o.liftWith(ev, bf, ones)
	}
	lcs := o.reconstructLCs(ev, bf)
	if !o.lcData().fullyReconstructable {
		log.Debugf("mfactor: leading coefficient %s not reconstructed at %v", o.lc, ev.Values())
		return o.liftWith(ev, bf, ones)
	}
	fs, err := o.liftWith(ev, bf, lcs)
	if err == nil {
		return fs, nil
	}
	log.Debugf("mfactor: lift with reconstructed leading coefficients failed: %v", err)
	return o.liftWith(ev, bf, ones)
}

// liftWith lifts bf to factors of g whose leading coefficients in x_0 are
// multiples of lcs. The part of lc(g) not covered by lcs is imposed on
// every factor (Wang's trick) and divided out again after the lift.
func (o *orchestrator[E]) liftWith(ev *hensel.Evaluation[E], bf, lcs []*mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	r := o.be.ring()
	rest, ok := o.lc.DivideExact(product(o.lc, lcs))
	if !ok {
		return nil, errgo.WithCausef(nil, errInconsistent, "predicted leading coefficients do not divide %s", o.lc)
	}
	ls := append([]*mpoly.Poly[E](nil), lcs...)
	base := o.g
	imposed := false
	if rest.IsConstant() && (r.IsField() || r.IsOne(rest.Lc()) || r.IsOne(r.Neg(rest.Lc()))) {
		ls[0] = ls[0].Mul(rest)
	} else {
		if !rest.IsConstant() {
			log.Debugf("mfactor: imposing %s on every factor", rest)
			metrics.RecordLCCorrection()
		}
		base = o.g.Mul(rest.Pow(len(ls) - 1))
		for i := range ls {
			ls[i] = ls[i].Mul(rest)
		}
		imposed = true
	}

	images := make([]*mpoly.Poly[E], len(bf))
	for i, h := range bf {
		scale, ok := ev.EvaluateFrom(ls[i], 2).DivideExact(h.LcIn(0))
		if !ok {
			return nil, errgo.WithCausef(nil, errInconsistent, "leading coefficient of %s", h)
		}
		images[i] = h.Mul(scale)
	}
	if !product(base, images).Equal(ev.EvaluateFrom(base, 2)) {
		return nil, errgo.WithCausef(nil, errInconsistent, "images do not multiply to the image of %s", base)
	}

	lifted, err := o.be.lift(base, images, ls, ev.Values())
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	if imposed {
		for i, h := range lifted {
			lifted[i] = mpoly.PrimitivePartAlong(h, 0)
		}
	}
	unit, ok := o.g.DivideExact(product(o.g, lifted))
	if !ok || !unit.IsConstant() {
		return nil, errgo.WithCausef(nil, errInconsistent, "lifted factors do not divide %s", o.g)
	}
	lifted[0] = lifted[0].Mul(unit)
	return lifted, nil
}

// sortFactors puts factors in a canonical order so that runs on the same
// image behave the same.
func sortFactors[E any](fs []*mpoly.Poly[E]) {
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].PrimitivePart().Compare(fs[j].PrimitivePart()) < 0
	})
}
