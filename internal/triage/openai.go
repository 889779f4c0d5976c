package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/observability"
)

// externalCallTimeout bounds every upstream HTTP call. Single attempt, no
// retries; the fallback classifier absorbs failures.
const externalCallTimeout = 30 * time.Second

const systemPrompt = "You are an expert IT support ticket triage agent. Analyze tickets and categorize them accurately."

// OpenAIClassifier sends ticket text to a chat-completions endpoint and
// parses the structured JSON verdict.
type OpenAIClassifier struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *zap.Logger
}

// NewOpenAIClassifier builds the AI strategy from the openai config section.
func NewOpenAIClassifier(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:  observability.NewHTTPClient(externalCallTimeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string         `json:"model"`
	Messages            []chatMessage  `json:"messages"`
	ResponseFormat      responseFormat `json:"response_format"`
	MaxCompletionTokens int            `json:"max_completion_tokens"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// verdict is the JSON document the model is instructed to produce.
type verdict struct {
	Category       string   `json:"category"`
	Priority       string   `json:"priority"`
	RequiredSkills []string `json:"required_skills"`
	Summary        string   `json:"summary"`
}

// Classify asks the model for a structured triage verdict. Out-of-set
// category or priority values are normalized rather than rejected, so a
// successful call always yields a usable result.
func (o *OpenAIClassifier) Classify(ctx context.Context, title, description string) (Result, error) {
	tracer := otel.Tracer("triage-service/triage")
	ctx, span := tracer.Start(ctx, "OpenAIClassifier.Classify")
	span.SetAttributes(attribute.String("model", o.model))
	defer span.End()

	request := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(title, description)},
		},
		ResponseFormat:      responseFormat{Type: "json_object"},
		MaxCompletionTokens: 500,
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	url := o.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return Result{}, fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if completion.Error != nil {
		span.SetStatus(codes.Error, completion.Error.Message)
		return Result{}, fmt.Errorf("chat completion error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		span.SetStatus(codes.Error, "no response choices")
		return Result{}, fmt.Errorf("chat completion returned no choices")
	}

	var v verdict
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &v); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("unmarshal verdict: %w", err)
	}

	return normalizeVerdict(v, title), nil
}

// buildPrompt embeds the ticket text and constrains the model to the closed
// category and priority sets.
func buildPrompt(title, description string) string {
	categories := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		categories[i] = string(c)
	}

	return fmt.Sprintf(`Analyze this support ticket and provide a structured response in JSON format.

Ticket Summary: %s
Full Description: %s

Please categorize this ticket and provide the following information:
1. category: Choose ONE from [%s]
2. priority: Choose ONE from [High, Medium, Low]
3. required_skills: List 1-3 skills needed (e.g., Network, Database, DevOps, Security, Frontend, Backend, Access)
4. summary: A concise 1-2 sentence summary for engineer assignment

Respond with JSON in this exact format:
{"category": "category_name", "priority": "priority_level", "required_skills": ["skill1", "skill2"], "summary": "brief summary"}`,
		title, description, strings.Join(categories, ", "))
}

// normalizeVerdict coerces the model output into the closed sets and fills
// gaps with safe defaults.
func normalizeVerdict(v verdict, title string) Result {
	category := domain.Category(strings.TrimSpace(v.Category))
	if !domain.ValidCategory(category) {
		category = domain.CategoryOther
	}

	priority := domain.TicketPriority(strings.TrimSpace(v.Priority))
	if !domain.ValidPriority(priority) {
		priority = domain.TicketPriorityMedium
	}

	skills := v.RequiredSkills
	if len(skills) == 0 {
		skills = []string{"Other"}
	}

	summary := strings.TrimSpace(v.Summary)
	if summary == "" {
		summary = title
	}

	return Result{
		Category: category,
		Priority: priority,
		Skills:   skills,
		Summary:  summary,
		Method:   domain.TriageMethodAI,
	}
}
