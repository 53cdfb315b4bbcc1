package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	Register(prometheus.NewRegistry())

	RecordEvaluation("zp", true)
	RecordEvaluation("zp", false)
	RecordEvaluation("zp", false)
	RecordLCCorrection()
	RecordExtension("3")
	RecordFactorization("z", time.Now(), 4, nil)
	RecordFactorization("z", time.Now(), 7, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.evaluations.WithLabelValues("zp", "accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.evaluations.WithLabelValues("zp", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lcCorrections))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.extensions.WithLabelValues("3")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.factorsReturned.WithLabelValues("z")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "rings_factor_evaluation_attempts")
	assert.Contains(t, names, "rings_factor_duration_seconds")
}
