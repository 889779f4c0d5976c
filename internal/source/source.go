package source

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// fetchTimeout bounds every upstream call. Single attempt, no retries; the
// triage service treats a failed source as absent, not fatal.
const fetchTimeout = 30 * time.Second

// Source pulls raw tickets from one upstream system. Fetch populates only
// the raw ticket fields in upstream order; the triage service assigns
// arrival indexes after merging batches from multiple sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Ticket, error)
}

// wrapTransportError maps client-side failures onto the upstream error
// taxonomy so handlers and logs can tell timeouts from other faults.
func wrapTransportError(system string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewUpstreamTimeout(system)
	}
	return apperrors.NewUpstreamError(system, err)
}

// upstreamTimeFormats covers the timestamp shapes the integrations return:
// ServiceNow display values, Jira's RFC3339 variant with numeric zone, and
// plain RFC3339 from the mock fixtures.
var upstreamTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
}

// parseUpstreamTime parses a source timestamp, returning the zero time when
// no known layout matches. A missing created-at never fails a fetch.
func parseUpstreamTime(value string) time.Time {
	for _, layout := range upstreamTimeFormats {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
