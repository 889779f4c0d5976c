package source

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

func TestWrapTransportError_DeadlineBecomesTimeout(t *testing.T) {
	err := wrapTransportError("ServiceNow", context.DeadlineExceeded)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPSTREAM_TIMEOUT", domainErr.Code)
	assert.Equal(t, http.StatusGatewayTimeout, domainErr.HTTPStatus)
}

func TestWrapTransportError_OtherFailuresStayUpstreamErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrapTransportError("Jira", cause)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPSTREAM_ERROR", domainErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestParseUpstreamTime_KnownLayouts(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "servicenow display", value: "2025-08-20 10:30:45", want: time.Date(2025, 8, 20, 10, 30, 45, 0, time.UTC)},
		{name: "jira created", value: "2025-08-19T14:22:33.000+0000", want: time.Date(2025, 8, 19, 14, 22, 33, 0, time.UTC)},
		{name: "rfc3339", value: "2025-08-18T09:00:00Z", want: time.Date(2025, 8, 18, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseUpstreamTime(tt.value)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseUpstreamTime_UnknownLayoutIsZero(t *testing.T) {
	assert.True(t, parseUpstreamTime("last tuesday").IsZero())
	assert.True(t, parseUpstreamTime("").IsZero())
}
