package domain

import "testing"

func info(name, email, phone, flight, booking string) *PassengerInfo {
	return &PassengerInfo{
		Name:             StringPtr(name),
		Email:            StringPtr(email),
		Phone:            StringPtr(phone),
		FlightNumber:     StringPtr(flight),
		BookingReference: StringPtr(booking),
	}
}

func TestMergePassengerInfoNewWinsWhenSet(t *testing.T) {
	existing := info("John Doe", "john@example.com", "", "AA123", "")
	next := info("", "j.doe@example.com", "+1 555 0100", "", "")

	got := MergePassengerInfo(existing, next)
	want := info("John Doe", "j.doe@example.com", "+1 555 0100", "AA123", "")
	if !got.Equal(want) {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if Deref(existing.Email) != "john@example.com" {
		t.Fatalf("merge mutated existing value")
	}
}

func TestMergePassengerInfoNilOperands(t *testing.T) {
	a := info("Sarah", "", "", "", "")
	if got := MergePassengerInfo(nil, a); got != a {
		t.Fatalf("nil existing should return new value as-is")
	}
	if got := MergePassengerInfo(a, nil); got != a {
		t.Fatalf("nil new should return existing unchanged")
	}
	if got := MergePassengerInfo(nil, nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMergePassengerInfoIdentity(t *testing.T) {
	a := info("Sarah Johnson", "sarah@test.com", "", "BA789", "XK12LM")
	empty := &PassengerInfo{}

	if got := MergePassengerInfo(a, empty); !got.Equal(a) {
		t.Fatalf("all-nil right operand changed value: %+v", got)
	}
	if got := MergePassengerInfo(empty, a); !got.Equal(a) {
		t.Fatalf("all-nil left operand changed value: %+v", got)
	}
}

func TestMergePassengerInfoAssociativeAndIdempotent(t *testing.T) {
	values := []*PassengerInfo{
		nil,
		{},
		info("John Doe", "", "", "", ""),
		info("", "john@example.com", "", "AA123", ""),
		info("Jane Roe", "", "+44 20 7946 0958", "", "ABC123"),
		info("", "", "", "BA789", ""),
	}

	for i, a := range values {
		for j, b := range values {
			ab := MergePassengerInfo(a, b)
			if again := MergePassengerInfo(ab, b); !again.Equal(ab) {
				t.Fatalf("merge(merge(%d,%d),%d) = %+v, want %+v", i, j, j, again, ab)
			}
			for k, c := range values {
				left := MergePassengerInfo(MergePassengerInfo(a, b), c)
				right := MergePassengerInfo(a, MergePassengerInfo(b, c))
				if !left.Equal(right) {
					t.Fatalf("not associative for (%d,%d,%d): %+v vs %+v", i, j, k, left, right)
				}
			}
		}
	}
}

func TestPriorityRankOrder(t *testing.T) {
	order := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("%s should rank below %s", order[i-1], order[i])
		}
	}
	if Priority("URGENT").Valid() {
		t.Fatalf("unknown priority reported valid")
	}
}
