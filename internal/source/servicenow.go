package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/observability"
	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

const (
	serviceNowSystem       = "ServiceNow"
	serviceNowTable        = "incident"
	serviceNowDefaultQuery = "state!=6^state!=7"
)

// ServiceNowSource reads open incidents through the Table API and can write
// triage results back onto them.
type ServiceNowSource struct {
	client      *http.Client
	instanceURL string
	username    string
	password    string
	limit       int
	query       string
	logger      *zap.Logger
}

// NewServiceNowSource builds a client from the servicenow config section.
func NewServiceNowSource(cfg config.ServiceNowConfig, logger *zap.Logger) *ServiceNowSource {
	query := cfg.Query
	if query == "" {
		query = serviceNowDefaultQuery
	}
	return &ServiceNowSource{
		client:      observability.NewHTTPClient(fetchTimeout),
		instanceURL: strings.TrimRight(cfg.InstanceURL, "/"),
		username:    cfg.Username,
		password:    cfg.Password,
		limit:       cfg.Limit,
		query:       query,
		logger:      logger,
	}
}

func (s *ServiceNowSource) Name() string {
	return string(domain.TicketSourceServiceNow)
}

// serviceNowIncident matches the Table API record shape with
// sysparm_display_value=true, which flattens reference fields to strings.
type serviceNowIncident struct {
	SysID            string `json:"sys_id"`
	Number           string `json:"number"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	State            string `json:"state"`
	CreatedOn        string `json:"sys_created_on"`
	CallerID         string `json:"caller_id"`
	AssignedTo       string `json:"assigned_to"`
}

func (r serviceNowIncident) ticket() domain.Ticket {
	return domain.Ticket{
		ID:             r.Number,
		ExternalID:     r.SysID,
		Source:         domain.TicketSourceServiceNow,
		Title:          r.ShortDescription,
		Description:    r.Description,
		NativePriority: r.Priority,
		NativeState:    r.State,
		Reporter:       r.CallerID,
		CreatedAt:      parseUpstreamTime(r.CreatedOn),
	}
}

// Fetch lists incidents matching the configured query, newest instance
// defaults excluding resolved (6) and closed (7) states.
func (s *ServiceNowSource) Fetch(ctx context.Context) ([]domain.Ticket, error) {
	endpoint := fmt.Sprintf("%s/api/now/table/%s", s.instanceURL, serviceNowTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	params := req.URL.Query()
	params.Set("sysparm_limit", strconv.Itoa(s.limit))
	params.Set("sysparm_display_value", "true")
	params.Set("sysparm_query", s.query)
	req.URL.RawQuery = params.Encode()
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, wrapTransportError(serviceNowSystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(serviceNowSystem, serviceNowStatusError(resp.StatusCode))
	}

	var payload struct {
		Result []serviceNowIncident `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewUpstreamError(serviceNowSystem, fmt.Errorf("decode response: %w", err))
	}

	tickets := make([]domain.Ticket, 0, len(payload.Result))
	for _, record := range payload.Result {
		tickets = append(tickets, record.ticket())
	}
	s.logger.Info("fetched servicenow incidents", zap.Int("count", len(tickets)))
	return tickets, nil
}

// Update PATCHes fields onto an incident, keyed by sys_id. The triage
// service uses it to write back the assigned engineer and a work note.
func (s *ServiceNowSource) Update(ctx context.Context, sysID string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	endpoint := fmt.Sprintf("%s/api/now/table/%s/%s", s.instanceURL, serviceNowTable, sysID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return wrapTransportError(serviceNowSystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError(serviceNowSystem, serviceNowStatusError(resp.StatusCode))
	}
	return nil
}

func (s *ServiceNowSource) setHeaders(req *http.Request) {
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// serviceNowStatusError translates the statuses the Table API documents into
// actionable messages.
func serviceNowStatusError(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return errors.New("invalid credentials, check username and password")
	case http.StatusForbidden:
		return errors.New("access forbidden, check API permissions")
	case http.StatusNotFound:
		return errors.New("endpoint not found, verify instance URL")
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}
