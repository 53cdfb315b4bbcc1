package main

import (
	"bytes"
	"encoding/hex"
	"math/big"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/factor"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/mpoly"
)

const (
	DefaultWorkers     = 4
	DefaultRepetitions = 5
	DefaultSeed        = 1
	DefaultOutDir      = "factorbench_reports"
	DefaultDBPath      = "factorbench.db"
)

// BenchConfig holds the run wide knobs.
type BenchConfig struct {
	Workers     int    `toml:"workers"`
	Repetitions int    `toml:"repetitions"`
	Seed        int64  `toml:"seed"`
	Out         string `toml:"out"`
	DB          string `toml:"db"`
}

// Term is coef/den * x^exp.
type Term struct {
	Coef int64 `toml:"coef"`
	Den  int64 `toml:"den"`
	Exp  []int `toml:"exp"`
}

// FactorSpec is one multiplicand of a case, raised to Exponent.
type FactorSpec struct {
	Exponent int    `toml:"exponent"`
	Terms    []Term `toml:"terms"`
}

// Case describes one polynomial to factor. The polynomial is the product
// of its factors.
type Case struct {
	Name    string       `toml:"name"`
	Domain  string       `toml:"domain"`
	Modulus uint64       `toml:"modulus"`
	Degree  int          `toml:"degree"`
	Vars    int          `toml:"vars"`
	Factors []FactorSpec `toml:"factor"`
}

// Settings is the whole configuration document.
type Settings struct {
	Bench BenchConfig `toml:"bench"`
	Cases []Case      `toml:"case"`
}

func DefaultSettings() Settings {
	return Settings{
		Bench: BenchConfig{
			Workers:     DefaultWorkers,
			Repetitions: DefaultRepetitions,
			Seed:        DefaultSeed,
			Out:         DefaultOutDir,
			DB:          DefaultDBPath,
		},
	}
}

// ParseSettings decodes a TOML document on top of the defaults.
func ParseSettings(data string) (*Settings, error) {
	s := DefaultSettings()
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, errors.WithStack(err)
	}
	seen := make(map[string]bool)
	for i := range s.Cases {
		if err := s.Cases[i].validate(); err != nil {
			return nil, errors.Wrapf(err, "case %d", i)
		}
		if seen[s.Cases[i].Name] {
			return nil, errors.Errorf("duplicate case name %q", s.Cases[i].Name)
		}
		seen[s.Cases[i].Name] = true
	}
	return &s, nil
}

func (c *Case) validate() error {
	if c.Name == "" {
		return errors.New("missing name")
	}
	if c.Vars < 1 {
		return errors.Errorf("%s: vars must be positive", c.Name)
	}
	switch c.Domain {
	case "zp", "gf":
		if c.Modulus < 2 {
			return errors.Errorf("%s: modulus required for domain %q", c.Name, c.Domain)
		}
		if c.Domain == "gf" && c.Degree < 1 {
			return errors.Errorf("%s: extension degree required", c.Name)
		}
	case "z", "q":
	default:
		return errors.Errorf("%s: unknown domain %q", c.Name, c.Domain)
	}
	if len(c.Factors) == 0 {
		return errors.Errorf("%s: no factors", c.Name)
	}
	for i := range c.Factors {
		f := &c.Factors[i]
		if f.Exponent == 0 {
			f.Exponent = 1
		}
		if f.Exponent < 0 {
			return errors.Errorf("%s: negative exponent", c.Name)
		}
		for j := range f.Terms {
			t := &f.Terms[j]
			if t.Den == 0 {
				t.Den = 1
			}
			if len(t.Exp) > c.Vars {
				return errors.Errorf("%s: term has %d exponents for %d variables", c.Name, len(t.Exp), c.Vars)
			}
			if t.Den != 1 && c.Domain != "q" {
				return errors.Errorf("%s: fractions need domain \"q\"", c.Name)
			}
		}
	}
	return nil
}

// Fingerprint identifies the case contents, independent of the file it was
// read from.
func (c *Case) Fingerprint() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", errors.WithStack(err)
	}
	sum := sha3.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:16]), nil
}

// outcome of a single factorization.
type outcome struct {
	Factors int
	Degrees []int
}

type runner func(rnd *domain.RNG) (outcome, error)

func build[E any](r domain.Ring[E], c *Case, coef func(Term) E) *mpoly.Poly[E] {
	p := mpoly.One(r, c.Vars, mpoly.Lex)
	for _, f := range c.Factors {
		terms := make([]mpoly.Term[E], 0, len(f.Terms))
		for _, t := range f.Terms {
			exp := make([]int, c.Vars)
			copy(exp, t.Exp)
			terms = append(terms, mpoly.Term[E]{Exp: exp, Coef: coef(t)})
		}
		p = p.Mul(mpoly.FromTerms(r, c.Vars, mpoly.Lex, terms).Pow(f.Exponent))
	}
	return p
}

func factorRunner[E any](name string, p *mpoly.Poly[E]) runner {
	return func(rnd *domain.RNG) (outcome, error) {
		d, err := factor.Factor(p, factor.WithRNG(rnd))
		if err != nil {
			return outcome{}, errors.Wrapf(err, "factor %s", name)
		}
		if !d.MultiplyOut().Equal(p) {
			return outcome{}, errors.Errorf("%s: factors do not multiply back to the input", name)
		}
		out := outcome{Factors: d.Size()}
		for _, h := range d.Factors {
			deg := 0
			for _, e := range h.Degrees() {
				deg += e
			}
			out.Degrees = append(out.Degrees, deg)
		}
		return out, nil
	}
}

// Runner builds the case polynomial and returns a function factoring it.
func (c *Case) Runner(seed int64) (runner, error) {
	switch c.Domain {
	case "zp":
		zp, err := domain.NewZp64(c.Modulus)
		if err != nil {
			return nil, errors.Wrap(err, c.Name)
		}
		return factorRunner(c.Name, build[uint64](zp, c, func(t Term) uint64 { return zp.FromInt64(t.Coef) })), nil
	case "gf":
		gf, err := domain.NewRandomGaloisField(c.Modulus, c.Degree, domain.NewSeededRNG(seed))
		if err != nil {
			return nil, errors.Wrap(err, c.Name)
		}
		return factorRunner(c.Name, build[kfield.Elem](gf, c, func(t Term) kfield.Elem { return gf.FromInt64(t.Coef) })), nil
	case "z":
		return factorRunner(c.Name, build[*big.Int](domain.Z, c, func(t Term) *big.Int { return big.NewInt(t.Coef) })), nil
	case "q":
		return factorRunner(c.Name, build[*big.Rat](domain.Q, c, func(t Term) *big.Rat { return big.NewRat(t.Coef, t.Den) })), nil
	}
	return nil, errors.Errorf("%s: unknown domain %q", c.Name, c.Domain)
}
