package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	triagehttp "github.com/spec-kit/triage-service/internal/api/http"
	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/assign"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/storage"
)

type stubSource struct {
	name    string
	tickets []domain.Ticket
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context) ([]domain.Ticket, error) {
	return append([]domain.Ticket(nil), s.tickets...), nil
}

func fixtureTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T-HIGH", ExternalID: "X-1", Source: domain.TicketSourceMock,
			Title: "VPN connection down for all remote users", Description: "remote offices cut off"},
		{ID: "T-LOW", ExternalID: "X-2", Source: domain.TicketSourceMock,
			Title: "enhancement for the reporting dashboard", Description: "nice to have"},
	}
}

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		AdminUser:       "admin",
		AdminPassword:   "s3cret",
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 30,
		BcryptCost:      bcrypt.MinCost,
	}
}

func newTestApp(t *testing.T, authCfg config.AuthConfig, tickets []domain.Ticket) *fiber.App {
	t.Helper()

	cfg := config.Default()
	cfg.Auth = authCfg
	logger := zap.NewNop()

	snapshots, err := storage.NewFileStore(
		config.StorageConfig{Format: config.FormatCSV, Directory: t.TempDir()}, logger)
	require.NoError(t, err)

	roster := []domain.Engineer{
		{Name: "Alice", Skills: []string{"Network", "Security"}, Availability: "available", MaxWorkload: 2},
		{Name: "Bob", Skills: []string{"DevOps", "Backend"}, Availability: "available", MaxWorkload: 2},
		{Name: "Carol", Skills: []string{"Frontend"}, Availability: "on_leave", MaxWorkload: 5},
	}

	svc := service.NewTriageService(service.TriageDependencies{
		Config:    cfg,
		Logger:    logger,
		Scorer:    assign.NewScorer(roster, logger),
		Snapshots: snapshots,
		Mock:      &stubSource{name: "Mock", tickets: tickets},
	})
	authSvc := service.NewAuthService(cfg.Auth, logger)

	app := fiber.New()
	triagehttp.RegisterMiddlewares(app, logger, nil, time.Minute)
	triagehttp.RegisterRoutes(app, triagehttp.RouteConfig{
		Health:         handlers.NewHealthHandler("triage-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authSvc),
		Triage:         handlers.NewTriageHandler(svc),
		Tickets:        handlers.NewTicketsHandler(svc),
		Dashboard:      handlers.NewDashboardHandler(svc),
		Engineers:      handlers.NewEngineersHandler(svc),
		Runs:           handlers.NewRunsHandler(svc),
		AuthMiddleware: auth.NewMiddleware(authSvc.TokenManager()),
	})
	return app
}

func jsonRequest(method, path string, body any, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeData(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func decodeErrorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Error.Code
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "s3cret"}, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, resp, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRoutes_HealthLive(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz/live", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "alive")
}

func TestRoutes_ReadyReportsOptionalStoresDisabled(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"postgres":"disabled"`)
	assert.Contains(t, string(body), `"redis":"disabled"`)
}

func TestRoutes_DashboardPageEmbedded(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), nil)

	for _, path := range []string{"/", "/dashboard"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "Ticket Triage Dashboard")
	}
}

func TestRoutes_UnknownPathKeeps404(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, resp))
}

func TestRoutes_TriageRunRequiresToken(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/run", map[string]any{}, ""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, resp))
}

func TestRoutes_TriageRunRejectsNonAdmin(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	viewer, _, err := tokens.Generate("bob", domain.Role("VIEWER"))
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/run", map[string]any{}, viewer))

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeErrorCode(t, resp))
}

func TestRoutes_LoginRunAndReadPipeline(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())
	token := login(t, app)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/run", map[string]any{}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var batch struct {
		RunID       string          `json:"run_id"`
		TicketCount int             `json:"ticket_count"`
		Assigned    int             `json:"assigned"`
		Tickets     []domain.Ticket `json:"tickets"`
	}
	decodeData(t, resp, &batch)
	assert.NotEmpty(t, batch.RunID)
	assert.Equal(t, 2, batch.TicketCount)
	assert.Equal(t, 2, batch.Assigned)
	require.Len(t, batch.Tickets, 2)
	assert.Equal(t, "T-HIGH", batch.Tickets[0].ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tickets?priority=High", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Count   int             `json:"count"`
		Tickets []domain.Ticket `json:"tickets"`
	}
	decodeData(t, resp, &listing)
	assert.Equal(t, 1, listing.Count)
	assert.Equal(t, "Alice", listing.Tickets[0].AssignedEngineer)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary service.Summary
	decodeData(t, resp, &summary)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.HighPriority)
	assert.Equal(t, 0, summary.Unassigned)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/engineers", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var statuses []service.EngineerStatus
	decodeData(t, resp, &statuses)
	assert.Len(t, statuses, 3)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var runs []map[string]any
	decodeData(t, resp, &runs)
	assert.Empty(t, runs)
}

func TestRoutes_ExportCSV(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())
	token := login(t, app)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/run", map[string]any{}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/export/tickets.csv", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "tickets.csv")

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,external_id,source"))
	assert.Contains(t, string(body), "T-HIGH")
}

func TestRoutes_DiagnosticsFlow(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())
	token := login(t, app)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/run", map[string]any{}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/diagnostics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeErrorCode(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/diagnostics?ticket_id=NOPE", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/v1/dashboard/diagnostics?ticket_id=T-HIGH&skill_weight=0.8", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var diag struct {
		Ticket    domain.Ticket           `json:"ticket"`
		Breakdown []assign.ScoreBreakdown `json:"breakdown"`
	}
	decodeData(t, resp, &diag)
	assert.Equal(t, "T-HIGH", diag.Ticket.ID)
	require.Len(t, diag.Breakdown, 3)
	assert.Equal(t, "Alice", diag.Breakdown[0].Engineer)
}

func TestRoutes_ReassignValidatesWeights(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())
	token := login(t, app)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/reassign",
		map[string]any{"skill_weight": 1.5}, token))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeErrorCode(t, resp))
}

func TestRoutes_ReassignWithoutBatchIsNotFound(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), fixtureTickets())
	token := login(t, app)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/triage/reassign", map[string]any{}, token))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeErrorCode(t, resp))
}

func TestRoutes_LoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t, testAuthCfg(), nil)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "wrong"}, ""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, resp))
}

func TestRoutes_LoginDisabledWithoutSecret(t *testing.T) {
	cfg := testAuthCfg()
	cfg.JWTSecret = ""
	app := newTestApp(t, cfg, nil)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "s3cret"}, ""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AUTH_DISABLED", decodeErrorCode(t, resp))
}
