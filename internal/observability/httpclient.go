package observability

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient builds the client used for outbound integration calls
// (OpenAI, ServiceNow, Jira). The otelhttp transport stays a passthrough
// until SetupTracing installs a tracer provider, so callers construct
// clients without knowing whether tracing is on.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
