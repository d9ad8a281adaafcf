package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "strike-booking")

	m.IncSubmission(OutcomeConfirmed)
	m.IncSubmission(OutcomeConfirmed)
	m.IncValidationFailure("lane_capacity")

	assert.Equal(t, 2.0, counterValue(t, reg, "booking_submissions_total", "outcome", OutcomeConfirmed))
	assert.Equal(t, 1.0, counterValue(t, reg, "booking_validation_failures_total", "rule", "lane_capacity"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncSubmission(OutcomeFailed)
		m.IncValidationFailure("required_fields")
	})
}
