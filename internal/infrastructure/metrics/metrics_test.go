package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReferralMetrics(reg)

	m.RecordRegistration(4)
	m.RecordRegistration(10)
	m.RecordPropagationFailure("5")
	m.RecordCommission(2.5)
	m.RecordInvestmentCreated("stake", 50)
	m.RecordError("register_participant", "duplicate_participant")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropagationFailures.WithLabelValues("5")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.CommissionAppliedAmountTotal))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.InvestmentsCreatedAmountTotal.WithLabelValues("stake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationErrorsTotal.WithLabelValues("register_participant", "duplicate_participant")))

	count, err := testutil.GatherAndCount(reg, "referral_propagation_levels")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewReferralMetricsIsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewReferralMetrics(prometheus.NewRegistry())
		NewReferralMetrics(prometheus.NewRegistry())
	})
}
