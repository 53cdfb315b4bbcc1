// Package mfactor factors multivariate polynomials over finite fields, the
// integers, the rationals and simple algebraic number fields.
//
// Square-free primitive inputs are routed by the number of variables they
// use: univariate ones go to package upoly, bivariate ones to the dense
// bivariate algorithm, and larger ones to the multivariate orchestrator,
// which reduces to a bivariate image, reconstructs leading coefficients
// and lifts with package hensel. Over small finite fields the whole
// problem moves to an extension field when good evaluation points run
// out.
//
// All algorithms are Las Vegas: random choices only affect running time,
// every returned factorization is verified to multiply out exactly.
package mfactor

import (
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/mpoly"
)

var (
	// ErrExhausted means no usable evaluation point or prime was found
	// within the retry bounds. Finite field callers escalate to an
	// extension field.
	ErrExhausted = errgo.New("evaluation points exhausted")

	// ErrUnsupportedRing is returned for coefficient rings with no
	// factorization algorithm, such as Z/n with composite n.
	ErrUnsupportedRing = errgo.New("factorization not supported over this ring")
)

const (
	// univariateAttempts is the number of univariate images compared
	// before the one with the fewest factors is lifted.
	univariateAttempts = 3

	// maxEvaluationFails bounds the rejected evaluation points over fields
	// with fewer than smallFieldCardinality elements.
	maxEvaluationFails = 32

	// maxInconsistentImages bounds bivariate images that fail to lift
	// before a small field is abandoned.
	maxInconsistentImages = 32

	// superfluousBeforeSwitch is how many images with too many factors
	// are accepted before another second variable is tried.
	superfluousBeforeSwitch = 8

	// maxBivariateValues bounds the values tried for the second variable
	// of a bivariate input.
	maxBivariateValues = 32

	// extensionDegree is the degree of the first extension tried.
	extensionDegree = 3

	// maxExtensions bounds the extension degrees tried after it.
	maxExtensions = 16

	// smallFieldBits is log2 of the cardinality below which a field is
	// small enough to exhaust.
	smallFieldBits = 10

	// maxAttempts caps evaluation attempts over large domains.
	maxAttempts = 1024

	// maxPrimes caps prime restarts of a modular lift.
	maxPrimes = 64
)

// backend is a coefficient domain the orchestrator can drive. It supplies
// evaluation points, low dimensional factorizations and lifting.
type backend[E any] interface {
	ring() domain.Ring[E]
	label() string
	// point draws values for x_1..x_{n-1}. attempt grows with every
	// rejected point.
	point(n, attempt int) []E
	// small reports whether repeated failures should end in
	// ErrExhausted rather than more attempts.
	small() bool
	factorUnivariate(f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error)
	factorBivariate(f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error)
	// lift runs hensel.Lift from bivariate images with the given leading
	// coefficients.
	lift(base *mpoly.Poly[E], images, lcs []*mpoly.Poly[E], values []E) ([]*mpoly.Poly[E], error)
	// liftAutomatic runs hensel.LiftAutomaticLC, mapping to a field when
	// the domain is not one.
	liftAutomatic(base *mpoly.Poly[E], images []*mpoly.Poly[E], values []E) ([]*mpoly.Poly[E], error)
}

// maxFails returns the number of failed points after which be gives up.
func maxFails[E any](be backend[E]) int {
	if be.small() {
		return maxEvaluationFails
	}
	return maxAttempts
}

// isSmallField reports whether r is a finite field with fewer than
// 2^smallFieldBits elements.
func isSmallField[E any](r domain.Ring[E]) bool {
	c := r.Cardinality()
	return c != nil && r.IsField() && c.BitLen() <= smallFieldBits
}

// factorSquareFree factors a square-free f with no content in the
// coefficient ring. The product of the returned factors equals f up to a
// unit.
func factorSquareFree[E any](be backend[E], f *mpoly.Poly[E]) ([]*mpoly.Poly[E], error) {
	if f.IsConstant() {
		return nil, nil
	}
	q, used := compress(f)
	var (
		fs  []*mpoly.Poly[E]
		err error
	)
	switch len(used) {
	case 1:
		fs, err = be.factorUnivariate(q)
	case 2:
		fs, err = be.factorBivariate(q)
	default:
		fs, err = factorMultivariate(be, q)
	}
	if err != nil {
		return nil, err
	}
	for i, h := range fs {
		fs[i] = expand(h, used, f.NVars())
	}
	return fs, nil
}

// compress drops the variables f does not use. used lists the kept
// variables in order.
func compress[E any](f *mpoly.Poly[E]) (*mpoly.Poly[E], []int) {
	var used, unused []int
	for v, u := range f.UsedVariables() {
		if u {
			used = append(used, v)
		} else {
			unused = append(unused, v)
		}
	}
	if len(unused) == 0 {
		return f, used
	}
	perm := make([]int, f.NVars())
	for i, v := range used {
		perm[v] = i
	}
	for i, v := range unused {
		perm[v] = len(used) + i
	}
	return f.RenameVariables(perm).SetNVars(len(used)), used
}

// expand undoes compress.
func expand[E any](h *mpoly.Poly[E], used []int, nvars int) *mpoly.Poly[E] {
	if h.NVars() == nvars {
		return h
	}
	perm := make([]int, nvars)
	taken := make([]bool, nvars)
	for i, v := range used {
		perm[i] = v
		taken[v] = true
	}
	next := 0
	for i := len(used); i < nvars; i++ {
		for taken[next] {
			next++
		}
		perm[i] = next
		taken[next] = true
	}
	return h.SetNVars(nvars).RenameVariables(perm)
}

// splitByDerivatives looks for a non-trivial gcd of f with one of its
// partial derivatives, which splits a square-free f into coprime parts.
func splitByDerivatives[E any](f *mpoly.Poly[E]) (*mpoly.Poly[E], *mpoly.Poly[E], bool) {
	for v, used := range f.UsedVariables() {
		if !used {
			continue
		}
		d := f.Derivative(v)
		if d.IsZero() {
			continue
		}
		g := mpoly.GCD(f, d)
		if g.IsConstant() {
			continue
		}
		rest, ok := f.DivideExact(g)
		if !ok || rest.IsConstant() {
			continue
		}
		return g, rest, true
	}
	return nil, nil, false
}

// product multiplies ps, or returns one shaped like like when ps is empty.
func product[E any](like *mpoly.Poly[E], ps []*mpoly.Poly[E]) *mpoly.Poly[E] {
	acc := like.One()
	for _, p := range ps {
		acc = acc.Mul(p)
	}
	return acc
}
