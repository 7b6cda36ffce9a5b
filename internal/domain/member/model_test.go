package member

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestAgeOn(t *testing.T) {
	birth := date(2010, time.June, 15)
	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"day before birthday", date(2024, time.June, 14), 13},
		{"on birthday", date(2024, time.June, 15), 14},
		{"earlier month", date(2024, time.May, 30), 13},
		{"later month", date(2024, time.July, 1), 14},
		{"day before 18th", date(2028, time.June, 14), 17},
		{"18th birthday", date(2028, time.June, 15), 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeOn(birth, tt.today); got != tt.want {
				t.Errorf("AgeOn() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsMinorOn(t *testing.T) {
	birth := date(2010, time.June, 15)
	if !IsMinorOn(birth, date(2024, time.June, 14)) {
		t.Error("13 year old should be a minor")
	}
	if !IsMinorOn(birth, date(2024, time.June, 15)) {
		t.Error("14 year old should be a minor")
	}
	if !IsMinorOn(birth, date(2028, time.June, 14)) {
		t.Error("one day before 18th birthday should still be a minor")
	}
	if IsMinorOn(birth, date(2028, time.June, 15)) {
		t.Error("18 year old should not be a minor")
	}
}

func TestMember_Validate(t *testing.T) {
	today := date(2024, time.June, 14)
	valid := Member{Name: "Ayşe", Surname: "Yılmaz", Email: "ayse@example.com"}

	tests := []struct {
		name    string
		mutate  func(m *Member)
		wantErr error
	}{
		{"valid adult without birth date", func(m *Member) {}, nil},
		{"empty name", func(m *Member) { m.Name = " " }, ErrNameRequired},
		{"empty surname", func(m *Member) { m.Surname = "" }, ErrSurnameRequired},
		{"bad email", func(m *Member) { m.Email = "nope" }, ErrInvalidEmail},
		{"future birth date", func(m *Member) { m.BirthDate = ptr(date(2030, 1, 1)) }, ErrBirthDateInFuture},
		{"minor without guardian", func(m *Member) { m.BirthDate = ptr(date(2010, 6, 15)) }, ErrMinorNeedsGuardian},
		{"minor with only parent name", func(m *Member) {
			m.BirthDate = ptr(date(2010, 6, 15))
			m.ParentName = "Fatma"
		}, ErrMinorNeedsGuardian},
		{"minor with guardian", func(m *Member) {
			m.BirthDate = ptr(date(2010, 6, 15))
			m.ParentName = "Fatma"
			m.ParentPhone = "5321234567"
		}, nil},
		{"adult with birth date", func(m *Member) { m.BirthDate = ptr(date(1990, 1, 1)) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			if err := m.Validate(today); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMember_NormalizeClearsGuardianForAdults(t *testing.T) {
	today := date(2024, time.June, 14)
	m := Member{
		Name:        " Can ",
		Surname:     "Demir",
		Email:       "can@example.com",
		BirthDate:   ptr(date(1990, 1, 1)),
		ParentName:  "Old",
		ParentPhone: "123",
	}
	m.Normalize(today)
	if m.Name != "Can" {
		t.Errorf("Name = %q, want trimmed", m.Name)
	}
	if m.ParentName != "" || m.ParentPhone != "" {
		t.Errorf("guardian fields = %q/%q, want cleared", m.ParentName, m.ParentPhone)
	}

	kid := Member{BirthDate: ptr(date(2015, 1, 1)), ParentName: "Veli", ParentPhone: "555"}
	kid.Normalize(today)
	if kid.ParentName != "Veli" || kid.ParentPhone != "555" {
		t.Error("guardian fields of a minor must be kept")
	}
}

func TestMember_Matches(t *testing.T) {
	m := Member{Name: "Zeynep", Surname: "Kaya", Email: "zk@example.com", Phone: "0532 123 45 67"}
	tests := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"zey", true},
		{"KAYA", true},
		{"zeynep kaya", true},
		{"example.com", true},
		{"5321234", true},
		{"532-123", true},
		{"ali", false},
		{"999", false},
	}
	for _, tt := range tests {
		if got := m.Matches(tt.q); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.q, got, tt.want)
		}
	}
}
