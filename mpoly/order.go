package mpoly

// Order is a monomial order on exponent vectors. Orders are compared by
// identity.
type Order struct {
	name string
	cmp  func(a, b []int) int
}

// NewOrder returns a custom monomial order.
func NewOrder(name string, cmp func(a, b []int) int) *Order {
	return &Order{name: name, cmp: cmp}
}

var (
	// Lex compares exponents lexicographically, variable 0 first.
	Lex = NewOrder("lex", lexCompare)
	// GrLex compares total degree first, then lexicographically.
	GrLex = NewOrder("grlex", grlexCompare)
	// GrevLex compares total degree first, then reverse lexicographically.
	GrevLex = NewOrder("grevlex", grevlexCompare)
)

// Compare returns -1, 0 or 1.
func (o *Order) Compare(a, b []int) int { return o.cmp(a, b) }

func (o *Order) String() string { return o.name }

func lexCompare(a, b []int) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func totalDegree(a []int) int {
	s := 0
	for _, e := range a {
		s += e
	}
	return s
}

func grlexCompare(a, b []int) int {
	da, db := totalDegree(a), totalDegree(b)
	if da != db {
		if da < db {
			return -1
		}
		return 1
	}
	return lexCompare(a, b)
}

func grevlexCompare(a, b []int) int {
	da, db := totalDegree(a), totalDegree(b)
	if da != db {
		if da < db {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
