// Package metrics defines the custom Prometheus metrics for the academy
// API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry
// via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "academy"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential logins.
// Labels:
//   - role: requested role ("allievo", "insegnante", …) or "any"
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of credential login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// PINChallengesTotal counts the admin PIN step.
// Label:
//   - result: "issued" (PIN accepted, challenge stored), "rejected" (bad PIN),
//     or "consumed" (identity step completed)
var PINChallengesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pin_challenges_total",
		Help:      "Total number of admin PIN challenges, by outcome.",
	},
	[]string{"result"},
)

// SessionsCreatedTotal counts sessions opened by any login path.
// Label:
//   - method: "credentials" or "admin_google"
var SessionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions opened, by login method.",
	},
	[]string{"method"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// SlotBookingsTotal counts calendar bookings and cancellations.
// Label:
//   - action: "booked" or "cancelled"
var SlotBookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_bookings_total",
		Help:      "Total number of lesson slot bookings and cancellations.",
	},
	[]string{"action"},
)

// ── Scheduler metrics ─────────────────────────────────────────────────────────

// SchedulerRunsTotal counts scheduled job executions.
// Labels:
//   - job: "payments_overdue" or "payments_monthly"
//   - result: "success" or "failure"
var SchedulerRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_runs_total",
		Help:      "Total number of scheduled job runs, by job and result.",
	},
	[]string{"job", "result"},
)

// PaymentsMarkedOverdueTotal counts payments flipped to scaduto by the
// sweep, whether triggered by cron or by the admin endpoint.
var PaymentsMarkedOverdueTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_marked_overdue_total",
		Help:      "Total number of payments marked overdue.",
	},
)
