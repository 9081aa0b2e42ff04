package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business counters of the API. HTTP level metrics live
// in the router.
type Metrics struct {
	AppointmentsCreated  prometheus.Counter
	AppointmentsVerified *prometheus.CounterVec
	AttendanceMarked     *prometheus.CounterVec
	MedicinesCreated     prometheus.Counter
	AuthFailures         *prometheus.CounterVec
	AccessDenied         *prometheus.CounterVec
	EventsPublished      *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil registerer
// means the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		AppointmentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of booked appointments",
		}),
		AppointmentsVerified: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_verified_total",
			Help:      "Total number of verify calls by caller role",
		}, []string{"role"}),
		AttendanceMarked: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_marked_total",
			Help:      "Total number of attendance upserts",
		}, []string{"source", "status"}),
		MedicinesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "medicines_created_total",
			Help:      "Total number of catalog entries created",
		}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected logins and tokens",
		}, []string{"reason"}),
		AccessDenied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Requests refused by the access policy",
		}, []string{"resource", "action"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker",
		}, []string{"type", "status"}),
	}
}

// NewNop returns counters bound to a throwaway registry, for tests and
// tools that do not expose metrics.
func NewNop() *Metrics {
	return New("nop", prometheus.NewRegistry())
}
