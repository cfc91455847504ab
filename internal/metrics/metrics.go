// Package metrics defines the Prometheus collectors of the employee portal.
// They register with the default registry on import and are served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "employee_portal"

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "invalid_request" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthFailuresTotal counts requests rejected by the authenticator.
// Label:
//   - reason: "missing_header", "expired", "forged", "malformed" or "unknown_account"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts requests rejected by the access policy.
// Label:
//   - reason: "role", "ownership" or "no_rule"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the access policy.",
	},
	[]string{"reason"},
)

// EmployeeOperationsTotal counts successful employee writes.
// Label:
//   - operation: "create", "update", "delete" or "update_credentials"
var EmployeeOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employee_operations_total",
		Help:      "Total number of successful employee write operations.",
	},
	[]string{"operation"},
)

// HTTPRequestDuration measures handling time per matched route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
