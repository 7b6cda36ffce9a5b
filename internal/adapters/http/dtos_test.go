package web

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestDTOs_FieldErrorsUseJSONNames verifies clients see their own field names.
func TestDTOs_FieldErrorsUseJSONNames(t *testing.T) {
	dto := attendanceDTO{Date: "03.06.2024", Slot: "noon"}
	fields, ok := dto.Ok()
	if ok {
		t.Fatal("Ok() = true, want false")
	}
	if fields["date"] != "datetime=2006-01-02" {
		t.Errorf("date rule = %q", fields["date"])
	}
	if fields["slot"] != "oneof=morning evening" {
		t.Errorf("slot rule = %q", fields["slot"])
	}
}

func TestPaymentDTO_Amount(t *testing.T) {
	tests := []struct {
		amount string
		ok     bool
	}{
		{"100", true},
		{"0.01", true},
		{"0", false},
		{"-1", false},
	}
	for _, tt := range tests {
		dto := paymentDTO{Amount: decimal.RequireFromString(tt.amount), Date: "2024-06-01"}
		fields, ok := dto.Ok()
		if ok != tt.ok {
			t.Errorf("amount %s: ok = %v, want %v (fields %v)", tt.amount, ok, tt.ok, fields)
		}
		if !ok && fields["amount"] == "" {
			t.Errorf("amount %s: missing amount field error", tt.amount)
		}
	}
}

func TestMemberDTO_BirthDate(t *testing.T) {
	dto := memberDTO{Name: " Ayşe ", Surname: "Yılmaz", Email: "a@example.com", BirthDate: "2010-02-28"}
	if fields, ok := dto.Ok(); !ok {
		t.Fatalf("Ok() fields = %v", fields)
	}
	in := dto.input()
	if in.Name != "Ayşe" {
		t.Errorf("Name = %q, want trimmed", in.Name)
	}
	if in.BirthDate == nil || in.BirthDate.Year() != 2010 {
		t.Errorf("BirthDate = %v", in.BirthDate)
	}
}
