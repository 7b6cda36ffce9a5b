package display

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(0), "0"},
		{decimal.NewFromInt(250), "250"},
		{decimal.NewFromInt(1200), "1.200"},
		{decimal.NewFromInt(1234567), "1.234.567"},
		{decimal.RequireFromString("839.5"), "840"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateDDMMYY(t *testing.T) {
	if got := FormatDateDDMMYY(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); got != "05/03/24" {
		t.Errorf("FormatDateDDMMYY() = %q, want 05/03/24", got)
	}
	if got := FormatDateDDMMYY(time.Time{}); got != "" {
		t.Errorf("FormatDateDDMMYY(zero) = %q, want empty", got)
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ten digits", "5321234567", "0532 123 45 67"},
		{"eleven digits", "05321234567", "0532 123 45 67"},
		{"already spaced", "0532 123 45 67", "0532 123 45 67"},
		{"too short", "12345", "12345"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPhone(tt.in); got != tt.want {
				t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
