package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[bench]
repetitions = 2
workers = 2

[[case]]
name = "zp"
domain = "zp"
modulus = 7
vars = 2

  [[case.factor]]
  terms = [{ coef = 1, exp = [1, 0] }, { coef = 1, exp = [0, 1] }]

  [[case.factor]]
  exponent = 2
  terms = [{ coef = 1, exp = [1, 1] }, { coef = 3 }]

[[case]]
name = "q"
domain = "q"
vars = 1

  [[case.factor]]
  terms = [{ coef = 1, den = 2, exp = [2] }, { coef = -2 }]
`

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(testConfig)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Bench.Repetitions)
	assert.Equal(t, 2, s.Bench.Workers)
	assert.Equal(t, int64(DefaultSeed), s.Bench.Seed)
	assert.Equal(t, DefaultDBPath, s.Bench.DB)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, 1, s.Cases[0].Factors[0].Exponent)
	assert.Equal(t, 2, s.Cases[0].Factors[1].Exponent)
	assert.Equal(t, int64(1), s.Cases[0].Factors[0].Terms[0].Den)
}

func TestParseSettingsRejects(t *testing.T) {
	for _, doc := range []string{
		"[[case]]\nname = \"a\"\ndomain = \"r\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1 }]",
		"[[case]]\nname = \"a\"\ndomain = \"zp\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1 }]",
		"[[case]]\nname = \"a\"\ndomain = \"z\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1, den = 2 }]",
		"[[case]]\nname = \"a\"\ndomain = \"z\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1, exp = [1, 1] }]",
		"[[case]]\nname = \"a\"\ndomain = \"z\"\nvars = 1",
		"[[case]]\nname = \"a\"\ndomain = \"z\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1 }]\n" +
			"[[case]]\nname = \"a\"\ndomain = \"z\"\nvars = 1\n[[case.factor]]\nterms = [{ coef = 1 }]",
		"[bench\n",
	} {
		_, err := ParseSettings(doc)
		assert.Error(t, err, doc)
	}
}

func TestFingerprint(t *testing.T) {
	a, err := ParseSettings(testConfig)
	require.NoError(t, err)
	b, err := ParseSettings(testConfig)
	require.NoError(t, err)
	fa, err := a.Cases[0].Fingerprint()
	require.NoError(t, err)
	fb, err := b.Cases[0].Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 32)

	b.Cases[0].Modulus = 11
	fc, err := b.Cases[0].Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestBench(t *testing.T) {
	s, err := ParseSettings(testConfig)
	require.NoError(t, err)
	summaries, samples, err := bench(s)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// (x + y) (x y + 3)^2, degrees summed over the variables
	assert.Equal(t, "zp", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].Factors)
	assert.ElementsMatch(t, []int{2, 2}, summaries[0].Degrees)
	assert.Zero(t, summaries[0].Failures)
	assert.Len(t, samples["zp"], 2)
	assert.Equal(t, 2, summaries[0].Millis.Count)

	// x^2/2 - 2 = (x - 2)(x + 2)/2
	assert.Equal(t, 2, summaries[1].Factors)
}

func TestStore(t *testing.T) {
	st, err := openStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer st.Close()

	prev, err := st.previous("missing")
	require.NoError(t, err)
	assert.Nil(t, prev)

	cs := caseSummary{Name: "zp", Fingerprint: "abc", Time: time.Unix(100, 0).UTC(), Factors: 3, Millis: computeStats([]float64{1, 2, 3})}
	require.NoError(t, st.save([]caseSummary{cs}))
	prev, err = st.previous("abc")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, cs.Time.Equal(prev.Time))
	assert.Equal(t, cs.Factors, prev.Factors)
	assert.Equal(t, cs.Millis, prev.Millis)
}

func TestStats(t *testing.T) {
	st := computeStats([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, st.Count)
	assert.InDelta(t, 2.5, st.Mean, 1e-12)
	assert.InDelta(t, 2.5, st.Median, 1e-12)
	assert.InDelta(t, 1.75, st.Q1, 1e-12)
	assert.InDelta(t, 3.25, st.Q3, 1e-12)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 4.0, st.Max)
	assert.Equal(t, summaryStats{}, computeStats(nil))

	edges, counts := computeHistogram([]float64{0, 1, 2, 3}, 2)
	assert.Equal(t, []float64{0, 1.5, 3}, edges)
	assert.Equal(t, []int{2, 2}, counts)
	assert.Equal(t, 1, freedmanDiaconisBins([]float64{5}))
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	cs := []caseSummary{{Name: "a", Millis: computeStats([]float64{1, 2})}}
	path, err := writeReport(dir, cs, []*caseSummary{nil}, map[string][]float64{"a": {1, 2}})
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "summary.json"))
	assert.NoError(t, err)
}
