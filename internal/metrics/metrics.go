// Package metrics registers the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AppointmentsBooked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_appointments_booked_total",
		Help: "Appointments created through the booking endpoint",
	})
	AppointmentsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_appointments_cancelled_total",
		Help: "Appointments cancelled",
	})
	IntakeSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_intake_submissions_total",
		Help: "Clients registered through the public intake form",
	})
	PlansGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_plans_generated_total",
		Help: "Yearly schedule previews generated",
	})
	PlanConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_plan_conflicts_total",
		Help: "Candidate dates skipped during schedule generation",
	})
	PlanAppointmentsCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soloplan_plan_appointments_committed_total",
		Help: "Generated appointments persisted by planning commit",
	})
)

func Register() {
	prometheus.MustRegister(
		AppointmentsBooked,
		AppointmentsCancelled,
		IntakeSubmissions,
		PlansGenerated,
		PlanConflicts,
		PlanAppointmentsCommitted,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
