package intake

import (
	"context"
	"sync"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/judgment"
)

// stubJudge answers from per-call functions and counts calls.
type stubJudge struct {
	classify func(text string, history []domain.Turn) (judgment.Classification, error)
	extract  func(turns []domain.Turn) (judgment.Extraction, error)
	analyze  func(complaint, name string) (judgment.Analysis, error)

	mu    sync.Mutex
	calls map[string]int
}

func (j *stubJudge) count(kind string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.calls == nil {
		j.calls = map[string]int{}
	}
	j.calls[kind]++
}

func (j *stubJudge) Calls(kind string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls[kind]
}

func (j *stubJudge) TotalCalls() int {
	return j.Calls("classify") + j.Calls("extract") + j.Calls("analyze")
}

func (j *stubJudge) Classify(_ context.Context, text string, history []domain.Turn) (judgment.Classification, error) {
	j.count("classify")
	if j.classify == nil {
		return judgment.Classification{IsComplaint: true, Confidence: 0.9}, nil
	}
	return j.classify(text, history)
}

func (j *stubJudge) Extract(_ context.Context, turns []domain.Turn) (judgment.Extraction, error) {
	j.count("extract")
	if j.extract == nil {
		return judgment.Extraction{}, nil
	}
	return j.extract(turns)
}

func (j *stubJudge) Analyze(_ context.Context, complaint, name string) (judgment.Analysis, error) {
	j.count("analyze")
	if j.analyze == nil {
		return judgment.Analysis{Category: domain.CategoryOther, Priority: domain.PriorityMedium, Sentiment: domain.SentimentNeutral}, nil
	}
	return j.analyze(complaint, name)
}

func completeExtraction(name, email, complaint string) judgment.Extraction {
	return judgment.Extraction{
		PassengerInfo: &domain.PassengerInfo{Name: domain.StringPtr(name), Email: domain.StringPtr(email)},
		Complaint:     domain.StringPtr(complaint),
		IsComplete:    true,
	}
}
