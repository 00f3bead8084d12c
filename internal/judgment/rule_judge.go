package judgment

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
)

var (
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	flightPattern  = regexp.MustCompile(`(?i)\bflight\s*#?\s*([a-z]{2}\s?\d{2,4})\b|\b([A-Z]{2}\d{2,4})\b`)
	bookingPattern = regexp.MustCompile(`(?i)\b(?:booking|confirmation|pnr)(?:\s+(?:reference|ref|code|number))?\s*(?:is|:|#)?\s*([a-z0-9]{6})\b`)
	namePattern    = regexp.MustCompile(`(?:\b[Ii] am|\b[Ii]'m|\b[Mm]y name is|\b[Tt]his is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`)
	leadingName    = regexp.MustCompile(`^\s*([A-Z][a-z]+\s+[A-Z][a-z]+)\s*,`)
)

var complaintKeywords = []string{
	"complain", "delay", "cancel", "lost", "luggage", "bag", "damaged", "refund",
	"rude", "missed", "stranded", "overbooked", "problem", "issue", "terrible",
	"awful", "broken", "injur", "dirty", "compensation",
}

var categoryKeywords = []struct {
	category domain.Category
	words    []string
}{
	{domain.CategoryBaggage, []string{"luggage", "bag", "suitcase"}},
	{domain.CategoryCancellation, []string{"cancel"}},
	{domain.CategoryRefund, []string{"refund", "reimburse", "compensation"}},
	{domain.CategoryDelay, []string{"delay", "late", "missed"}},
	{domain.CategoryService, []string{"rude", "staff", "crew", "service", "dirty", "seat", "meal"}},
}

var (
	criticalWords = []string{"injur", "emergency", "medical", "safety", "unaccompanied"}
	highWords     = []string{"lost", "cancel", "stranded", "missed", "overbooked", "urgent"}
	mediumWords   = []string{"delay", "damaged", "refund", "rude", "broken"}
	angryWords    = []string{"terrible", "awful", "worst", "furious", "unacceptable", "disgusting"}
)

// RuleJudge is a deterministic Judge built from keyword and pattern rules.
// It backs MOCK mode and local development.
type RuleJudge struct{}

// NewRuleJudge creates a RuleJudge.
func NewRuleJudge() *RuleJudge {
	return &RuleJudge{}
}

var _ Judge = (*RuleJudge)(nil)

// Classify implements Judge. Messages that only carry passenger details count
// as complaint content when the conversation already holds a complaint.
func (RuleJudge) Classify(ctx context.Context, text string, history []domain.Turn) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{}, Unavailable("classify", err)
	}
	if hits := matchWords(text, complaintKeywords); len(hits) > 0 {
		return Classification{IsComplaint: true, Confidence: 0.9, Reasoning: "complaint keywords: " + strings.Join(hits, ", ")}, nil
	}
	if carriesDetails(text) && priorComplaint(history) {
		return Classification{IsComplaint: true, Confidence: 0.7, Reasoning: "details for an ongoing complaint"}, nil
	}
	return Classification{IsComplaint: false, Confidence: 0.8, Reasoning: "no complaint indicators"}, nil
}

// Extract implements Judge.
func (RuleJudge) Extract(ctx context.Context, turns []domain.Turn) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, Unavailable("extract", err)
	}

	info := &domain.PassengerInfo{}
	var complaint []string
	for _, t := range turns {
		if t.Role != domain.RoleUser {
			continue
		}
		info = domain.MergePassengerInfo(info, extractDetails(t.Content))
		if len(matchWords(t.Content, complaintKeywords)) > 0 {
			complaint = append(complaint, strings.TrimSpace(t.Content))
		}
	}

	out := Extraction{PassengerInfo: info}
	if len(complaint) > 0 {
		out.Complaint = domain.StringPtr(strings.Join(complaint, " "))
	}
	out.IsComplete = info.HasName() && info.HasContact() && out.Complaint != nil
	return out, nil
}

// Analyze implements Judge.
func (RuleJudge) Analyze(ctx context.Context, complaint, passengerName string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, Unavailable("analyze", err)
	}

	out := Analysis{Category: domain.CategoryOther, Priority: domain.PriorityLow, Sentiment: domain.SentimentNeutral}
	for _, ck := range categoryKeywords {
		if len(matchWords(complaint, ck.words)) > 0 {
			out.Category = ck.category
			break
		}
	}

	lower := strings.ToLower(complaint)
	switch {
	case containsAny(lower, criticalWords):
		out.Priority = domain.PriorityCritical
	case containsAny(lower, highWords):
		out.Priority = domain.PriorityHigh
	case containsAny(lower, mediumWords):
		out.Priority = domain.PriorityMedium
	}

	switch {
	case containsAny(lower, angryWords):
		out.Sentiment = domain.SentimentVeryNegative
	case len(matchWords(complaint, complaintKeywords)) > 0:
		out.Sentiment = domain.SentimentNegative
	}

	out.KeyIssues = matchWords(complaint, complaintKeywords)
	return out, nil
}

func extractDetails(text string) *domain.PassengerInfo {
	info := &domain.PassengerInfo{}
	if m := emailPattern.FindString(text); m != "" {
		info.Email = domain.StringPtr(m)
	}
	if m := phonePattern.FindString(text); m != "" {
		info.Phone = domain.StringPtr(strings.TrimSpace(m))
	}
	if m := flightPattern.FindStringSubmatch(text); m != nil {
		flight := m[1]
		if flight == "" {
			flight = m[2]
		}
		info.FlightNumber = domain.StringPtr(strings.ToUpper(strings.ReplaceAll(flight, " ", "")))
	}
	if m := bookingPattern.FindStringSubmatch(text); m != nil {
		info.BookingReference = domain.StringPtr(strings.ToUpper(m[1]))
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		info.Name = domain.StringPtr(m[1])
	} else if m := leadingName.FindStringSubmatch(text); m != nil {
		info.Name = domain.StringPtr(m[1])
	}
	return info
}

func carriesDetails(text string) bool {
	d := extractDetails(text)
	return d.HasName() || d.HasContact() || d.FlightNumber != nil || d.BookingReference != nil
}

func priorComplaint(history []domain.Turn) bool {
	for _, t := range history {
		if t.Role == domain.RoleUser && t.Complaint {
			return true
		}
	}
	return false
}

// matchWords returns the distinct words of text that start with one of the
// given stems, sorted.
func matchWords(text string, stems []string) []string {
	seen := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '\'')
	}) {
		for _, s := range stems {
			if strings.HasPrefix(w, s) {
				seen[s] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
