package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReferralMetrics holds the collectors of the referral and investment ledger.
type ReferralMetrics struct {
	RegistrationsTotal      prometheus.Counter
	PropagationLevels       prometheus.Histogram
	PropagationFailures     *prometheus.CounterVec
	PropagationResumedTotal prometheus.Counter

	InvestmentsCreatedTotal       *prometheus.CounterVec
	InvestmentsCreatedAmountTotal *prometheus.CounterVec
	InvestmentUpdatesTotal        prometheus.Counter

	CommissionAppliedTotal       prometheus.Counter
	CommissionAppliedAmountTotal prometheus.Counter

	OperationErrorsTotal *prometheus.CounterVec
}

// NewReferralMetrics registers all collectors on reg. Passing a fresh registry
// keeps tests independent of the global one.
func NewReferralMetrics(reg prometheus.Registerer) *ReferralMetrics {
	factory := promauto.With(reg)
	return &ReferralMetrics{
		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_registrations_total",
			Help: "Participants registered successfully",
		}),
		PropagationLevels: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "referral_propagation_levels",
			Help:    "Upline levels credited per registration",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		}),
		PropagationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_propagation_failures_total",
			Help: "Upline walks stopped partway, by last completed level",
		}, []string{"last_completed_level"}),
		PropagationResumedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_propagation_resumed_total",
			Help: "Partial propagations completed by the reconciler",
		}),

		InvestmentsCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "investments_created_total",
			Help: "Investments created, by type",
		}, []string{"investment_type"}),
		InvestmentsCreatedAmountTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "investments_created_amount_total",
			Help: "Sum of created investment amounts, by type",
		}, []string{"investment_type"}),
		InvestmentUpdatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "investment_updates_total",
			Help: "Investment updates applied",
		}),

		CommissionAppliedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_commission_applied_total",
			Help: "Commission accruals applied to referral edges",
		}),
		CommissionAppliedAmountTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_commission_applied_amount_total",
			Help: "Sum of commission accrued on referral edges",
		}),

		OperationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_operation_errors_total",
			Help: "Failed operations, by operation and error kind",
		}, []string{"operation", "kind"}),
	}
}

func (m *ReferralMetrics) RecordRegistration(levelsCredited int) {
	m.RegistrationsTotal.Inc()
	m.PropagationLevels.Observe(float64(levelsCredited))
}

func (m *ReferralMetrics) RecordPropagationFailure(lastCompletedLevel string) {
	m.PropagationFailures.WithLabelValues(lastCompletedLevel).Inc()
}

func (m *ReferralMetrics) RecordPropagationResumed() {
	m.PropagationResumedTotal.Inc()
}

func (m *ReferralMetrics) RecordInvestmentCreated(investmentType string, amount float64) {
	m.InvestmentsCreatedTotal.WithLabelValues(investmentType).Inc()
	m.InvestmentsCreatedAmountTotal.WithLabelValues(investmentType).Add(amount)
}

func (m *ReferralMetrics) RecordInvestmentUpdated() {
	m.InvestmentUpdatesTotal.Inc()
}

func (m *ReferralMetrics) RecordCommission(amount float64) {
	m.CommissionAppliedTotal.Inc()
	m.CommissionAppliedAmountTotal.Add(amount)
}

func (m *ReferralMetrics) RecordError(operation, kind string) {
	m.OperationErrorsTotal.WithLabelValues(operation, kind).Inc()
}
