package mpoly

import (
	"fmt"
	"strings"
)

// DefaultVariables returns x0, x1, ... for n variables.
func DefaultVariables(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

func (p *Poly[E]) String() string {
	return p.Format(DefaultVariables(p.nvars))
}

// Format renders p with the given variable names.
func (p *Poly[E]) Format(vars []string) string {
	if p.IsZero() {
		return "0"
	}
	parts := make([]string, 0, len(p.terms))
	for _, t := range p.terms {
		var mono []string
		for i, e := range t.Exp {
			switch {
			case e == 1:
				mono = append(mono, vars[i])
			case e > 1:
				mono = append(mono, fmt.Sprintf("%s^%d", vars[i], e))
			}
		}
		c := p.ring.Format(t.Coef)
		switch {
		case len(mono) == 0:
			parts = append(parts, c)
		case p.ring.IsOne(t.Coef):
			parts = append(parts, strings.Join(mono, "*"))
		default:
			parts = append(parts, c+"*"+strings.Join(mono, "*"))
		}
	}
	return strings.Join(parts, " + ")
}
