package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SagaMetrics records checkout saga outcomes. Consistency violations feed an
// alerting rule; the other counters are dashboards only.
type SagaMetrics struct {
	stepFailures          *prometheus.CounterVec
	compensations         *prometheus.CounterVec
	reservationConflicts  prometheus.Counter
	consistencyViolations prometheus.Counter
}

// NewSagaMetrics registers the saga metrics on the provided registerer.
func NewSagaMetrics(reg prometheus.Registerer) *SagaMetrics {
	if reg == nil {
		return &SagaMetrics{}
	}
	stepFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_saga_step_failures",
		Help: "Checkout saga step failures by step.",
	}, []string{"step"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_saga_compensations",
		Help: "Compensation actions executed by step.",
	}, []string{"step"})
	reservationConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservation_conflicts",
		Help: "Reservation attempts rejected by the conditional stock update.",
	})
	consistencyViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_consistency_violations",
		Help: "Allocations where the sufficiency precheck passed but no warehouse could serve.",
	})
	reg.MustRegister(stepFailures, compensations, reservationConflicts, consistencyViolations)
	return &SagaMetrics{
		stepFailures:          stepFailures,
		compensations:         compensations,
		reservationConflicts:  reservationConflicts,
		consistencyViolations: consistencyViolations,
	}
}

// IncStepFailure increments the failure counter for the named saga step.
func (s *SagaMetrics) IncStepFailure(step string) {
	if s == nil || s.stepFailures == nil {
		return
	}
	s.stepFailures.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncCompensation increments the compensation counter for the named saga step.
func (s *SagaMetrics) IncCompensation(step string) {
	if s == nil || s.compensations == nil {
		return
	}
	s.compensations.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncReservationConflict counts a rejected conditional reservation.
func (s *SagaMetrics) IncReservationConflict() {
	if s == nil || s.reservationConflicts == nil {
		return
	}
	s.reservationConflicts.Inc()
}

// IncConsistencyViolation counts an allocation that contradicted its precheck.
func (s *SagaMetrics) IncConsistencyViolation() {
	if s == nil || s.consistencyViolations == nil {
		return
	}
	s.consistencyViolations.Inc()
}
