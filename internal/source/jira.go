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
	jiraSystem       = "Jira"
	jiraDefaultJQL   = "status != Done AND status != Closed"
	jiraSearchFields = "summary,description,priority,status,created,issuetype,reporter,assignee"
)

// JiraSource reads open issues through the REST v3 search API and can push
// triage results back as issue updates or comments.
type JiraSource struct {
	client     *http.Client
	serverURL  string
	email      string
	apiToken   string
	jql        string
	maxResults int
	logger     *zap.Logger
}

// NewJiraSource builds a client from the jira config section.
func NewJiraSource(cfg config.JiraConfig, logger *zap.Logger) *JiraSource {
	jql := cfg.JQLQuery
	if jql == "" {
		jql = jiraDefaultJQL
	}
	return &JiraSource{
		client:     observability.NewHTTPClient(fetchTimeout),
		serverURL:  strings.TrimRight(cfg.ServerURL, "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		jql:        jql,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}
}

func (j *JiraSource) Name() string {
	return string(domain.TicketSourceJira)
}

type jiraName struct {
	Name string `json:"name"`
}

type jiraUser struct {
	DisplayName string `json:"displayName"`
}

// jiraFields keeps Description raw because the v3 API returns it as an
// Atlassian document, while older servers and webhooks send a plain string.
type jiraFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"`
	Priority    *jiraName       `json:"priority"`
	Status      *jiraName       `json:"status"`
	Created     string          `json:"created"`
	IssueType   *jiraName       `json:"issuetype"`
	Reporter    *jiraUser       `json:"reporter"`
	Assignee    *jiraUser       `json:"assignee"`
}

type jiraIssue struct {
	ID     string     `json:"id"`
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

func (i jiraIssue) ticket() domain.Ticket {
	reporter := ""
	if i.Fields.Reporter != nil {
		reporter = i.Fields.Reporter.DisplayName
	}
	return domain.Ticket{
		ID:             i.Key,
		ExternalID:     i.ID,
		Source:         domain.TicketSourceJira,
		Title:          i.Fields.Summary,
		Description:    documentText(i.Fields.Description),
		NativePriority: nameOr(i.Fields.Priority, "Medium"),
		NativeState:    nameOr(i.Fields.Status, "Open"),
		IssueType:      nameOr(i.Fields.IssueType, "Task"),
		Reporter:       reporter,
		CreatedAt:      parseUpstreamTime(i.Fields.Created),
	}
}

func nameOr(n *jiraName, fallback string) string {
	if n == nil || n.Name == "" {
		return fallback
	}
	return n.Name
}

// Fetch searches issues matching the configured JQL, defaulting to
// everything not yet Done or Closed.
func (j *JiraSource) Fetch(ctx context.Context) ([]domain.Ticket, error) {
	endpoint := j.serverURL + "/rest/api/3/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	params := req.URL.Query()
	params.Set("jql", j.jql)
	params.Set("maxResults", strconv.Itoa(j.maxResults))
	params.Set("fields", jiraSearchFields)
	req.URL.RawQuery = params.Encode()
	j.setHeaders(req)

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, wrapTransportError(jiraSystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(jiraSystem, jiraStatusError(resp.StatusCode))
	}

	var payload struct {
		Issues []jiraIssue `json:"issues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewUpstreamError(jiraSystem, fmt.Errorf("decode response: %w", err))
	}

	tickets := make([]domain.Ticket, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		tickets = append(tickets, issue.ticket())
	}
	j.logger.Info("fetched jira issues", zap.Int("count", len(tickets)))
	return tickets, nil
}

// Update PUTs field changes onto an issue, keyed by issue key. Assigning
// through this API requires an accountId, e.g.
// {"assignee": {"accountId": "..."}}.
func (j *JiraSource) Update(ctx context.Context, key string, fields map[string]any) error {
	payload := struct {
		Fields map[string]any `json:"fields"`
	}{Fields: fields}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s", j.serverURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	j.setHeaders(req)

	resp, err := j.client.Do(req)
	if err != nil {
		return wrapTransportError(jiraSystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError(jiraSystem, jiraStatusError(resp.StatusCode))
	}
	return nil
}

// AddComment posts a plain-text comment wrapped in the document structure
// the v3 comment API requires. The triage service uses it to write back
// category, priority, and assignment.
func (j *JiraSource) AddComment(ctx context.Context, key, text string) error {
	payload := struct {
		Body adfNode `json:"body"`
	}{
		Body: adfNode{
			Type:    "doc",
			Version: 1,
			Content: []adfNode{{
				Type:    "paragraph",
				Content: []adfNode{{Type: "text", Text: text}},
			}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", j.serverURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	j.setHeaders(req)

	resp, err := j.client.Do(req)
	if err != nil {
		return wrapTransportError(jiraSystem, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError(jiraSystem, jiraStatusError(resp.StatusCode))
	}
	return nil
}

func (j *JiraSource) setHeaders(req *http.Request) {
	req.SetBasicAuth(j.email, j.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func jiraStatusError(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return errors.New("invalid credentials, check email and API token")
	case http.StatusForbidden:
		return errors.New("access forbidden, check API token permissions")
	case http.StatusNotFound:
		return errors.New("endpoint not found, verify server URL")
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// adfNode is the minimal Atlassian document shape: enough to compose a
// one-paragraph comment and to flatten an incoming description to text.
type adfNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// documentText extracts readable text from a description that is either a
// JSON string or an Atlassian document. Unknown shapes yield "".
func documentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	var b strings.Builder
	flattenDocument(doc, &b)
	return strings.TrimSpace(b.String())
}

func flattenDocument(node adfNode, b *strings.Builder) {
	if node.Text != "" {
		b.WriteString(node.Text)
	}
	for _, child := range node.Content {
		flattenDocument(child, b)
	}
	if node.Type == "paragraph" {
		b.WriteString("\n")
	}
}
