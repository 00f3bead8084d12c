// Package judgment defines the structured judgment port used by the intake
// engine and its implementations.
package judgment

import (
	"context"
	"errors"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

// ErrUnavailable wraps every failure of a judge. The engine maps it to the
// apology reply with status "error".
var ErrUnavailable = errors.New("judgment unavailable")

// Classification is the result of Classify.
type Classification struct {
	IsComplaint bool    `json:"is_complaint"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

// Extraction is the result of Extract.
type Extraction struct {
	PassengerInfo *domain.PassengerInfo `json:"passenger_info"`
	Complaint     *string               `json:"complaint_description"`
	IsComplete    bool                  `json:"is_complete"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	Category  domain.Category  `json:"category"`
	Priority  domain.Priority  `json:"priority"`
	Sentiment domain.Sentiment `json:"sentiment"`
	KeyIssues []string         `json:"key_issues"`
}

// Judge turns free text into structured judgments.
type Judge interface {
	// Classify decides whether text is a complaint. history holds the turns
	// before text, oldest first.
	Classify(ctx context.Context, text string, history []domain.Turn) (Classification, error)

	// Extract reads passenger details and the complaint description from the
	// whole conversation, current message included.
	Extract(ctx context.Context, turns []domain.Turn) (Extraction, error)

	// Analyze categorises and prioritises a complaint.
	Analyze(ctx context.Context, complaint, passengerName string) (Analysis, error)
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// Error records which judgment failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "judgment " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}
