package triage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cyber-incident-desk/services/triage-service/triage"

	"github.com/m-mizutani/gt"
	openai "github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	content string
	err     error
	gotReq  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestExtractJSON(t *testing.T) {
	raw, ok := triage.ExtractJSON(`{"issueType": "scam"}`)
	gt.True(t, ok)
	gt.Equal(t, raw, `{"issueType": "scam"}`)

	raw, ok = triage.ExtractJSON("Here is the classification:\n```json\n{\"issueType\": \"phishing\", \"priority\": \"high\"}\n```\nDone.")
	gt.True(t, ok)
	gt.Equal(t, raw, `{"issueType": "phishing", "priority": "high"}`)

	raw, ok = triage.ExtractJSON(`{"reason": "nested {braces} and \"quotes\" inside", "priority": "low"}`)
	gt.True(t, ok)
	gt.Equal(t, raw, `{"reason": "nested {braces} and \"quotes\" inside", "priority": "low"}`)

	_, ok = triage.ExtractJSON("no json here")
	gt.False(t, ok)

	_, ok = triage.ExtractJSON(`{"unclosed": "object"`)
	gt.False(t, ok)
}

func TestParseResultValid(t *testing.T) {
	result := triage.ParseResult(`{"issueType": "phishing", "priority": "high", "reason": "Credentials entered on fake login page."}`, "other")
	gt.Equal(t, result.IssueType, "phishing")
	gt.Equal(t, result.Priority, "high")
	gt.Equal(t, result.Reason, "Credentials entered on fake login page.")
}

func TestParseResultGarbageFallsBack(t *testing.T) {
	result := triage.ParseResult("I cannot classify this incident.", "scam")
	gt.Equal(t, result.IssueType, "scam")
	gt.Equal(t, result.Priority, "medium")
	gt.True(t, strings.Contains(result.Reason, "manual review"))
}

func TestParseResultGarbageWithoutHint(t *testing.T) {
	result := triage.ParseResult("not json at all", "")
	gt.Equal(t, result.IssueType, "other")
	gt.Equal(t, result.Priority, "medium")
}

func TestParseResultCoercesInvalidEnums(t *testing.T) {
	result := triage.ParseResult(`{"issueType": "ransomware", "priority": "urgent", "reason": "Bad values."}`, "malware")
	gt.Equal(t, result.IssueType, "malware")
	gt.Equal(t, result.Priority, "medium")

	result = triage.ParseResult(`{"issueType": "ransomware", "priority": "critical", "reason": "Bad values."}`, "not_a_type")
	gt.Equal(t, result.IssueType, "other")
	gt.Equal(t, result.Priority, "medium")
}

func TestClassifySendsHintAndDescription(t *testing.T) {
	fake := &fakeCompleter{content: `{"issueType": "scam", "priority": "high", "reason": "Money was lost."}`}
	svc := triage.New(fake, "test-model")

	result, err := svc.Classify(context.Background(), "I paid for goods that never arrived", "scam")
	gt.NoError(t, err)
	gt.Equal(t, result.IssueType, "scam")
	gt.Equal(t, result.Priority, "high")

	gt.Equal(t, fake.gotReq.Model, "test-model")
	gt.Equal(t, len(fake.gotReq.Messages), 2)
	gt.Equal(t, fake.gotReq.Messages[0].Role, openai.ChatMessageRoleSystem)
	gt.True(t, strings.Contains(fake.gotReq.Messages[1].Content, "User selected issue type: scam"))
	gt.True(t, strings.Contains(fake.gotReq.Messages[1].Content, "I paid for goods that never arrived"))
}

func TestClassifyEmptyHintBecomesNotSpecified(t *testing.T) {
	fake := &fakeCompleter{content: `{"issueType": "other", "priority": "low", "reason": "General question."}`}
	svc := triage.New(fake, "test-model")

	_, err := svc.Classify(context.Background(), "How do I change my password?", "")
	gt.NoError(t, err)
	gt.True(t, strings.Contains(fake.gotReq.Messages[1].Content, "User selected issue type: not specified"))
}

func TestClassifyRequiresDescription(t *testing.T) {
	fake := &fakeCompleter{}
	svc := triage.New(fake, "test-model")

	_, err := svc.Classify(context.Background(), "   ", "scam")
	gt.Error(t, err)
}

func TestClassifyPropagatesGatewayError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("gateway down")}
	svc := triage.New(fake, "test-model")

	_, err := svc.Classify(context.Background(), "Someone hacked my account", "")
	gt.Error(t, err)
}
