package domain

import "strings"

// PassengerInfo holds the contact and travel details collected for a
// complaint. Nil fields are unknown.
type PassengerInfo struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	FlightNumber     *string `json:"flight_number,omitempty"`
	BookingReference *string `json:"booking_reference,omitempty"`
}

// MergePassengerInfo combines existing with a newer extraction. A field of
// next replaces the existing one only when it is non-nil. When either
// argument is nil the other is returned unchanged.
//
// The all-nil value is the identity, and merging the same extraction twice
// yields the same result as merging it once.
func MergePassengerInfo(existing, next *PassengerInfo) *PassengerInfo {
	if existing == nil {
		return next
	}
	if next == nil {
		return existing
	}
	merged := *existing
	if next.Name != nil {
		merged.Name = next.Name
	}
	if next.Email != nil {
		merged.Email = next.Email
	}
	if next.Phone != nil {
		merged.Phone = next.Phone
	}
	if next.FlightNumber != nil {
		merged.FlightNumber = next.FlightNumber
	}
	if next.BookingReference != nil {
		merged.BookingReference = next.BookingReference
	}
	return &merged
}

// Equal reports whether both values carry the same field values.
func (p *PassengerInfo) Equal(other *PassengerInfo) bool {
	if p == nil || other == nil {
		return p == other
	}
	return eqPtr(p.Name, other.Name) &&
		eqPtr(p.Email, other.Email) &&
		eqPtr(p.Phone, other.Phone) &&
		eqPtr(p.FlightNumber, other.FlightNumber) &&
		eqPtr(p.BookingReference, other.BookingReference)
}

// HasName reports whether a non-blank name is known.
func (p *PassengerInfo) HasName() bool {
	return p != nil && present(p.Name)
}

// HasContact reports whether an email or phone number is known.
func (p *PassengerInfo) HasContact() bool {
	return p != nil && (present(p.Email) || present(p.Phone))
}

// DisplayName returns the passenger name or fallback when it is unknown.
func (p *PassengerInfo) DisplayName(fallback string) string {
	if p.HasName() {
		return strings.TrimSpace(*p.Name)
	}
	return fallback
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
