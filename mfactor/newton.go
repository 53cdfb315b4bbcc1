package mfactor

import (
	"sort"

	"github.com/tueda/rings/mpoly"
)

type point struct{ x, y int }

func cross(o, a, b point) int {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

// convexHull returns the vertices of the convex hull of pts in
// counter-clockwise order, collinear points dropped (monotone chain).
func convexHull(pts []point) []point {
	pts = append([]point(nil), pts...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}
	hull := make([]point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// newtonPolygon returns the hull of the exponents of a bivariate f.
func newtonPolygon[E any](f *mpoly.Poly[E]) []point {
	pts := make([]point, 0, f.Size())
	for _, t := range f.Terms() {
		pts = append(pts, point{t.Exp[0], t.Exp[1]})
	}
	return convexHull(pts)
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// indecomposable recognizes the two integrally indecomposable shapes of
// Gao's criterion: the segment from (n, 0) to (0, m), and a triangle with
// vertices (n, 0), (0, m), (u, v), when the gcd of all coordinates is one.
// A polynomial with such a Newton polygon is irreducible over every field.
func indecomposable(np []point) bool {
	switch len(np) {
	case 2:
		a, b := np[0], np[1]
		if a.y == 0 && b.x == 0 || a.x == 0 && b.y == 0 {
			return gcd(a.x+b.x, a.y+b.y) == 1
		}
		return false
	case 3:
		n, m := -1, -1
		var other *point
		for i, p := range np {
			switch {
			case p.x != 0 && p.y == 0:
				n = p.x
			case p.x == 0 && p.y != 0:
				m = p.y
			default:
				other = &np[i]
			}
		}
		if n < 0 || m < 0 || other == nil {
			return false
		}
		return gcd(gcd(n, m), gcd(other.x, other.y)) == 1
	}
	return false
}

// certainlyIrreducible is a cheap sufficient test for bivariate f.
func certainlyIrreducible[E any](f *mpoly.Poly[E]) bool {
	if f.NVars() != 2 || f.Size() < 2 {
		return false
	}
	return indecomposable(newtonPolygon(f))
}
