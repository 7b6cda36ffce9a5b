package lesson

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseSlot(t *testing.T) {
	for _, s := range []string{"morning", "evening"} {
		if _, err := ParseSlot(s); err != nil {
			t.Errorf("ParseSlot(%q) error = %v", s, err)
		}
	}
	if _, err := ParseSlot("noon"); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("ParseSlot(noon) error = %v, want ErrInvalidSlot", err)
	}
}

func TestAt_PinsSlotHoursInUTC(t *testing.T) {
	local := time.Date(2024, 7, 1, 1, 0, 0, 0, time.FixedZone("X", -5*3600)) // 06:00Z same day
	tests := []struct {
		slot Slot
		want time.Time
	}{
		{Morning, time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)},
		{Evening, time.Date(2024, 7, 1, 16, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := At(local, tt.slot); !got.Equal(tt.want) {
			t.Errorf("At(%s) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	l, err := New(day, Evening, []string{"a", "b", "a", "", "c"}, time.Now())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.ID != "2024-07-01_evening" {
		t.Errorf("ID = %q, want 2024-07-01_evening", l.ID)
	}
	if !reflect.DeepEqual(l.MemberIDs, []string{"a", "b", "c"}) {
		t.Errorf("MemberIDs = %v, want [a b c]", l.MemberIDs)
	}
	if !l.Has("b") || l.Has("z") {
		t.Error("Has() mismatch")
	}

	empty, err := New(day, Morning, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if empty.MemberIDs == nil {
		t.Error("MemberIDs should be an empty list, not nil")
	}

	if _, err := New(time.Time{}, Morning, nil, time.Now()); err != ErrDateRequired {
		t.Errorf("New(zero day) error = %v, want ErrDateRequired", err)
	}
	if _, err := New(day, Slot("late"), nil, time.Now()); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("New(bad slot) error = %v, want ErrInvalidSlot", err)
	}
}
