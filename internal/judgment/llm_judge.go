package judgment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/adapter/llm"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

const classifySystemPrompt = `You classify airline customer messages.
Reply with a JSON object: {"is_complaint": bool, "confidence": number between 0 and 1, "reasoning": string}.`

const extractSystemPrompt = `You extract passenger information and complaint details from airline support conversations.
Reply with a JSON object:
{"passenger_info": {"name": string|null, "email": string|null, "phone": string|null, "flight_number": string|null, "booking_reference": string|null},
 "complaint_description": string|null,
 "is_complete": bool}
Use null for anything not stated. Set is_complete only when a name, at least one contact method (email or phone) and a clear complaint description are all present.`

const analyzeSystemPrompt = `You analyze airline complaints.
Reply with a JSON object:
{"category": one of DELAY|CANCELLATION|BAGGAGE|SERVICE|REFUND|OTHER,
 "priority": one of LOW|MEDIUM|HIGH|CRITICAL,
 "sentiment": one of POSITIVE|NEUTRAL|NEGATIVE|VERY_NEGATIVE,
 "key_issues": [string]}`

// LLMJudge implements Judge on top of a chat completion model in JSON mode.
type LLMJudge struct {
	client      llm.LLMClient
	model       string
	temperature float64
}

// NewLLMJudge creates a judge backed by client.
func NewLLMJudge(client llm.LLMClient, model string, temperature float64) *LLMJudge {
	return &LLMJudge{client: client, model: model, temperature: temperature}
}

var _ Judge = (*LLMJudge)(nil)

// Classify implements Judge.
func (j *LLMJudge) Classify(ctx context.Context, text string, history []domain.Turn) (Classification, error) {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		b.WriteString(transcript(history))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Classify if this message is related to a complaint or issue:\n\nMessage: %s\n\nConsider the conversation context. Even greetings can lead to complaints.", text)

	var out Classification
	if err := j.complete(ctx, classifySystemPrompt, b.String(), &out); err != nil {
		return Classification{}, Unavailable("classify", err)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return Classification{}, Unavailable("classify", fmt.Errorf("confidence %v out of range", out.Confidence))
	}
	return out, nil
}

// Extract implements Judge.
func (j *LLMJudge) Extract(ctx context.Context, turns []domain.Turn) (Extraction, error) {
	prompt := "Extract passenger information and complaint details from this conversation:\n\n" + transcript(turns)

	var raw struct {
		PassengerInfo struct {
			Name             string `json:"name"`
			Email            string `json:"email"`
			Phone            string `json:"phone"`
			FlightNumber     string `json:"flight_number"`
			BookingReference string `json:"booking_reference"`
		} `json:"passenger_info"`
		Complaint  string `json:"complaint_description"`
		IsComplete bool   `json:"is_complete"`
	}
	if err := j.complete(ctx, extractSystemPrompt, prompt, &raw); err != nil {
		return Extraction{}, Unavailable("extract", err)
	}

	// Blank strings count as unknown so they never overwrite merged values.
	info := &domain.PassengerInfo{
		Name:             domain.StringPtr(raw.PassengerInfo.Name),
		Email:            domain.StringPtr(raw.PassengerInfo.Email),
		Phone:            domain.StringPtr(raw.PassengerInfo.Phone),
		FlightNumber:     domain.StringPtr(raw.PassengerInfo.FlightNumber),
		BookingReference: domain.StringPtr(raw.PassengerInfo.BookingReference),
	}
	return Extraction{
		PassengerInfo: info,
		Complaint:     domain.StringPtr(raw.Complaint),
		IsComplete:    raw.IsComplete,
	}, nil
}

// Analyze implements Judge.
func (j *LLMJudge) Analyze(ctx context.Context, complaint, passengerName string) (Analysis, error) {
	prompt := fmt.Sprintf("Analyze this airline complaint:\n\nComplaint: %s\nPassenger: %s\n\nDetermine category, priority, and sentiment.", complaint, passengerName)

	var out Analysis
	if err := j.complete(ctx, analyzeSystemPrompt, prompt, &out); err != nil {
		return Analysis{}, Unavailable("analyze", err)
	}
	out.Category = domain.Category(strings.ToUpper(string(out.Category)))
	out.Priority = domain.Priority(strings.ToUpper(string(out.Priority)))
	out.Sentiment = domain.Sentiment(strings.ToUpper(string(out.Sentiment)))
	switch {
	case !out.Category.Valid():
		return Analysis{}, Unavailable("analyze", fmt.Errorf("unknown category %q", out.Category))
	case !out.Priority.Valid():
		return Analysis{}, Unavailable("analyze", fmt.Errorf("unknown priority %q", out.Priority))
	case !out.Sentiment.Valid():
		return Analysis{}, Unavailable("analyze", fmt.Errorf("unknown sentiment %q", out.Sentiment))
	}
	return out, nil
}

func (j *LLMJudge) complete(ctx context.Context, system, user string, out interface{}) error {
	temperature := j.temperature
	resp, err := j.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: j.model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    &temperature,
		ResponseFormat: llm.JSONObjectFormat(),
	})
	if err != nil {
		return err
	}
	content, ok := resp.Content()
	if !ok {
		return errors.New("empty completion")
	}
	if err := json.Unmarshal([]byte(stripFence(content)), out); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

func transcript(turns []domain.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, string(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// stripFence removes a surrounding ```json fence some models add even in
// JSON mode.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
