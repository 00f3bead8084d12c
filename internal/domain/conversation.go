package domain

// Turn is one message exchanged in a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Complaint marks user turns that were classified as complaint content.
	Complaint bool `json:"complaint,omitempty"`
}

// UserTurns counts the user turns in history.
func UserTurns(history []Turn) int {
	n := 0
	for _, t := range history {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}

// LastUserTurn returns the most recent user turn in history.
func LastUserTurn(history []Turn) (Turn, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i], true
		}
	}
	return Turn{}, false
}
