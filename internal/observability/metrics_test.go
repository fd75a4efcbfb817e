package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestRecordOTPEvent(t *testing.T) {
	before := testutil.ToFloat64(otpEvents.WithLabelValues(OTPVerify, "error"))
	RecordOTPEvent(OTPVerify, errors.New("bad code"))
	RecordOTPEvent(OTPVerify, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(otpEvents.WithLabelValues(OTPVerify, "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(otpEvents.WithLabelValues(OTPVerify, "ok")), 1.0)
}

func TestRecordGRPCRequest(t *testing.T) {
	before := testutil.ToFloat64(grpcRequests.WithLabelValues("/svc/Ping", "OK"))
	RecordGRPCRequest("/svc/Ping", codes.OK, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(grpcRequests.WithLabelValues("/svc/Ping", "OK")))
}

func TestRecordAssessmentCounters(t *testing.T) {
	RecordAssessmentCompleted("sme")
	RecordRecommendationFailure("sme-recommendations")
	assert.GreaterOrEqual(t, testutil.ToFloat64(assessmentsCompleted.WithLabelValues("sme")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(recommendationFailures.WithLabelValues("sme-recommendations")), 1.0)
}

func TestRegisterMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterMetrics()
		RegisterMetrics()
	})
}
