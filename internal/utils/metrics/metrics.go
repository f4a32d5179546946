package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts every HTTP request.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_service_requests_total",
		Help: "The total number of requests",
	})

	// ResponsesTotal counts responses by status code.
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_responses_total",
		Help: "The total number of responses by status code",
	}, []string{"status"})

	// RequestDuration tracks request latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_service_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// LoginAttemptsTotal counts login outcomes.
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_login_attempts_total",
		Help: "The total number of login attempts",
	}, []string{"status"})

	// RegistrationAttemptsTotal counts registration outcomes.
	RegistrationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_registration_attempts_total",
		Help: "The total number of registration attempts",
	}, []string{"status"})

	// TokenRefreshTotal counts refresh outcomes.
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_token_refresh_total",
		Help: "The total number of token refreshes",
	}, []string{"status"})

	// PasswordResetTotal counts forgot/reset outcomes.
	PasswordResetTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_service_password_reset_total",
		Help: "The total number of password reset requests",
	}, []string{"status"})
)
