package metrics

import (
	"errors"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveEvaluation("tick", "transition")
	pr.ObserveEvaluation("tick", "transition")
	pr.ObserveEvaluation("refresh", "baseline")
	pr.ObserveSinkCall(true, nil)
	pr.ObserveSinkCall(false, errors.New("denied"))
	pr.ObserveOverride()
	pr.SetShouldBeLight(true)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.evaluations.WithLabelValues("tick", "transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.sinkCalls.WithLabelValues("dark", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.overrides))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.shouldBeLight))

	pr.SetShouldBeLight(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(pr.shouldBeLight))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveEvaluation("tick", "unchanged")
	r.ObserveSinkCall(true, nil)
	r.ObserveOverride()
	r.SetShouldBeLight(true)
}
