package judgment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/adapter/llm"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

func TestLLMJudgeClassify(t *testing.T) {
	mock := llm.NewMockClient().Reply(`{"is_complaint": true, "confidence": 0.92, "reasoning": "lost bag"}`)
	judge := NewLLMJudge(mock, "gpt-4o-mini", 0.1)

	got, err := judge.Classify(context.Background(), "my bag is gone", []domain.Turn{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "How can I help?"},
	})
	require.NoError(t, err)
	assert.True(t, got.IsComplaint)
	assert.InDelta(t, 0.92, got.Confidence, 1e-9)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gpt-4o-mini", reqs[0].Model)
	assert.Equal(t, "json_object", reqs[0].ResponseFormat["type"])
	assert.Contains(t, reqs[0].Messages[1].Content, "Message: my bag is gone")
	assert.Contains(t, reqs[0].Messages[1].Content, "assistant: How can I help?")
}

func TestLLMJudgeClassifyRejectsConfidence(t *testing.T) {
	judge := NewLLMJudge(llm.NewMockClient().Reply(`{"is_complaint": true, "confidence": 3}`), "m", 0)

	_, err := judge.Classify(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLLMJudgeExtractBlankFieldsAreUnknown(t *testing.T) {
	mock := llm.NewMockClient().Reply("```json\n" + `{"passenger_info": {"name": "John Doe", "email": "", "phone": null, "flight_number": "AA123"}, "complaint_description": "lost luggage", "is_complete": false}` + "\n```")
	judge := NewLLMJudge(mock, "m", 0)

	got, err := judge.Extract(context.Background(), []domain.Turn{{Role: domain.RoleUser, Content: "I am John Doe"}})
	require.NoError(t, err)
	require.NotNil(t, got.PassengerInfo)
	assert.Equal(t, "John Doe", domain.Deref(got.PassengerInfo.Name))
	assert.Nil(t, got.PassengerInfo.Email)
	assert.Nil(t, got.PassengerInfo.Phone)
	assert.Equal(t, "AA123", domain.Deref(got.PassengerInfo.FlightNumber))
	assert.Equal(t, "lost luggage", domain.Deref(got.Complaint))
	assert.False(t, got.IsComplete)
}

func TestLLMJudgeAnalyze(t *testing.T) {
	mock := llm.NewMockClient().Reply(`{"category": "baggage", "priority": "HIGH", "sentiment": "NEGATIVE", "key_issues": ["lost luggage"]}`)
	judge := NewLLMJudge(mock, "m", 0)

	got, err := judge.Analyze(context.Background(), "lost my luggage", "John Doe")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBaggage, got.Category)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, []string{"lost luggage"}, got.KeyIssues)
	assert.Contains(t, mock.Requests()[0].Messages[1].Content, "Passenger: John Doe")
}

func TestLLMJudgeAnalyzeRejectsUnknownPriority(t *testing.T) {
	mock := llm.NewMockClient().Reply(`{"category": "DELAY", "priority": "URGENT", "sentiment": "NEUTRAL", "key_issues": []}`)

	_, err := NewLLMJudge(mock, "m", 0).Analyze(context.Background(), "late", "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLLMJudgeTransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	judge := NewLLMJudge(llm.NewMockClient().Fail(boom), "m", 0)

	_, err := judge.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "judgment extract")
}

func TestLLMJudgeMalformedJSON(t *testing.T) {
	judge := NewLLMJudge(llm.NewMockClient().Reply("not json"), "m", 0)

	_, err := judge.Classify(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
