// Package monitoring exposes Prometheus metrics for the marketplace
// workflow. Counters are labelled by outcome so dashboards can separate
// business rejections (seat conflicts, sold-out tickets) from failures.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Booking creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	paymentsSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Successfully settled payments",
		},
	)

	advertisedSlots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "advertised_tickets",
			Help: "Tickets currently occupying an advertisement slot (cap 6)",
		},
	)

	fraudCascades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraud_cascades_total",
			Help: "Fraud flag toggles applied to vendors",
		},
		[]string{"action"}, // mark | clear
	)
)

// BookingCreated records one booking creation attempt. Outcome is
// "created" or a short rejection reason.
func BookingCreated(outcome string) { bookingsCreated.WithLabelValues(outcome).Inc() }

// PaymentSettled records one committed settlement.
func PaymentSettled() { paymentsSettled.Inc() }

// SetAdvertisedSlots updates the advertised-slot gauge from store state.
func SetAdvertisedSlots(n int) { advertisedSlots.Set(float64(n)) }

// FraudCascade records a fraud mark ("mark") or removal ("clear").
func FraudCascade(action string) { fraudCascades.WithLabelValues(action).Inc() }
