package lesson

import (
	"errors"
	"fmt"
	"time"

	"studio/internal/domain/caldate"
)

// Slot is one of the two fixed daily lesson windows.
type Slot string

// Slot constants. Each slot is pinned to a UTC hour so stored instants never
// drift with the recording client's timezone.
const (
	Morning Slot = "morning"
	Evening Slot = "evening"
)

// Slots lists every slot in day order.
var Slots = []Slot{Morning, Evening}

// Domain errors
var (
	ErrInvalidSlot  = errors.New("time slot must be 'morning' or 'evening'")
	ErrDateRequired = errors.New("lesson date is required")
)

// ParseSlot validates a slot name.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case Morning, Evening:
		return Slot(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

// Hour returns the UTC hour the slot is stored at.
func (s Slot) Hour() int {
	if s == Evening {
		return 16
	}
	return 10
}

// At returns the stored instant for a lesson on day in slot.
func At(day time.Time, slot Slot) time.Time {
	return caldate.Midnight(day).Add(time.Duration(slot.Hour()) * time.Hour)
}

// Key is the deterministic record id for (day, slot), e.g. "2024-07-01_morning".
func Key(day time.Time, slot Slot) string {
	return caldate.Format(day) + "_" + string(slot)
}

// Lesson records which members attended one slot on one day.
type Lesson struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	TimeSlot  Slot      `json:"timeSlot"`
	MemberIDs []string  `json:"memberIds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds the attendance record for (day, slot).
// PRE: day is non-zero, slot is valid
// POST: MemberIDs holds each id once in first-seen order, never nil
func New(day time.Time, slot Slot, memberIDs []string, now time.Time) (Lesson, error) {
	if day.IsZero() {
		return Lesson{}, ErrDateRequired
	}
	if _, err := ParseSlot(string(slot)); err != nil {
		return Lesson{}, err
	}
	return Lesson{
		ID:        Key(day, slot),
		Date:      At(day, slot),
		TimeSlot:  slot,
		MemberIDs: Dedupe(memberIDs),
		UpdatedAt: caldate.Stamp(now),
	}, nil
}

// Has reports whether memberID attended.
func (l *Lesson) Has(memberID string) bool {
	for _, id := range l.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// Dedupe drops empty and repeated ids, keeping first-seen order.
func Dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
