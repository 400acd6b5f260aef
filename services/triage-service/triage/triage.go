package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cyber-incident-desk/services/report-service/models"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a cybersecurity incident triage AI for a university help desk. Analyze the incident description and return a JSON classification.

Your task:
1. Classify the incident type from these options ONLY: scam, phishing, online_fraud, hacking_attempt, malware, social_media_threat, other
2. Assign a priority: high, medium, or low
3. Provide a brief reason (1-2 sentences)

Rules:
- If someone reports financial loss, stolen credentials, or ongoing attack: HIGH priority
- If someone reports a suspicious link/email but hasn't interacted: MEDIUM priority
- General inquiries or non-urgent reports: LOW priority
- Use the description context to pick the most accurate issue type

Respond with ONLY valid JSON, no markdown:
{"issueType": "...", "priority": "...", "reason": "..."}`

const fallbackReason = "AI classification unavailable, defaulting to manual review."

// Result is the classification returned to the intake form. It always holds
// values from the closed issue type and priority sets.
type Result struct {
	IssueType string `json:"issueType"`
	Priority  string `json:"priority"`
	Reason    string `json:"reason"`
}

// ChatCompleter is the slice of the OpenAI-compatible client the triage
// service needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewGatewayClient builds a client against an OpenAI-compatible gateway.
func NewGatewayClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

type Service struct {
	client ChatCompleter
	model  string
}

func New(client ChatCompleter, model string) *Service {
	return &Service{client: client, model: model}
}

// Classify asks the model for a classification of the incident description.
// A malformed model response degrades to the manual-review fallback instead
// of failing; only gateway errors propagate.
func (s *Service) Classify(ctx context.Context, description, issueTypeHint string) (Result, error) {
	if strings.TrimSpace(description) == "" {
		return Result{}, errors.New("Description is required")
	}

	hint := issueTypeHint
	if hint == "" {
		hint = "not specified"
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("User selected issue type: %s\n\nIncident description:\n%s", hint, description),
			},
		},
	})
	if err != nil {
		return Result{}, err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return ParseResult(content, issueTypeHint), nil
}

// ParseResult decodes the model output, tolerating markdown fences and prose
// around the JSON object, and coerces the fields into the closed sets.
func ParseResult(content, issueTypeHint string) Result {
	var result Result

	raw, ok := ExtractJSON(content)
	if !ok || json.Unmarshal([]byte(raw), &result) != nil {
		result = fallback(issueTypeHint)
	}

	if !models.ValidIssueType(result.IssueType) {
		if models.ValidIssueType(issueTypeHint) {
			result.IssueType = issueTypeHint
		} else {
			result.IssueType = models.IssueOther
		}
	}
	if !models.ValidPriority(result.Priority) {
		result.Priority = models.PriorityMedium
	}
	return result
}

func fallback(issueTypeHint string) Result {
	issueType := issueTypeHint
	if issueType == "" {
		issueType = models.IssueOther
	}
	return Result{
		IssueType: issueType,
		Priority:  models.PriorityMedium,
		Reason:    fallbackReason,
	}
}

// ExtractJSON returns the first balanced JSON object embedded in s.
func ExtractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
