package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful student registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qrattend_registrations_total",
		Help: "Successful student registrations.",
	})

	// CheckInsTotal counts attendance submissions by outcome
	// (recorded, duplicate, rejected, failed).
	CheckInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qrattend_checkins_total",
		Help: "Attendance check-in attempts by outcome.",
	}, []string{"outcome"})
)
