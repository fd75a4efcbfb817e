// Package observability owns the Prometheus collectors exported by the
// server and the helpers that record into them.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
)

var (
	registerOnce sync.Once

	grpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smehub",
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Total gRPC requests by method and status code.",
		},
		[]string{"method", "code"},
	)
	grpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smehub",
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	otpEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smehub",
			Subsystem: "otp",
			Name:      "events_total",
			Help:      "One-time passcode lifecycle events.",
		},
		[]string{"event", "result"},
	)
	assessmentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smehub",
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Completed assessments by kind.",
		},
		[]string{"kind"},
	)
	recommendationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smehub",
			Subsystem: "assessment",
			Name:      "recommendation_failures_total",
			Help:      "Recommendation function failures by function name.",
		},
		[]string{"function"},
	)
)

// OTP event names.
const (
	OTPDispatch = "dispatch"
	OTPResend   = "resend"
	OTPVerify   = "verify"
)

// RegisterMetrics registers all collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(grpcRequests, grpcDuration, otpEvents, assessmentsCompleted, recommendationFailures)
	})
}

func RecordGRPCRequest(method string, code codes.Code, duration time.Duration) {
	grpcRequests.WithLabelValues(method, code.String()).Inc()
	grpcDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RecordOTPEvent(event string, err error) {
	otpEvents.WithLabelValues(event, result(err)).Inc()
}

func RecordAssessmentCompleted(kind string) {
	assessmentsCompleted.WithLabelValues(kind).Inc()
}

func RecordRecommendationFailure(function string) {
	recommendationFailures.WithLabelValues(function).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
