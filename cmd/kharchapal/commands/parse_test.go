package commands

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kharchapal/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"800", "800", false},
		{" 12.50 ", "12.5", false},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	got, err := parseDate("", now)
	if err != nil || !got.Equal(now) {
		t.Errorf("parseDate(\"\") = %v, %v; want %v", got, err, now)
	}

	got, err = parseDate("2026-09-30", now)
	if err != nil || !got.Equal(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parseDate(2026-09-30) = %v, %v", got, err)
	}

	if _, err := parseDate("30/09/2026", now); err == nil {
		t.Error("parseDate should reject other layouts")
	}
}

func TestParseLine(t *testing.T) {
	users := []models.User{
		{ID: "u1", Name: "Asha"},
		{ID: "u2", Name: "Ravi"},
	}

	tests := []struct {
		name         string
		input        string
		wantMethod   models.PaymentMethod
		wantAmount   string
		wantAccount  string
		wantLenderID string
		wantOutsider string
		wantErr      bool
	}{
		{name: "cash", input: "cash:500", wantMethod: models.PaymentCash, wantAmount: "500"},
		{name: "upper-case method", input: "UPI:300", wantMethod: models.PaymentUPI, wantAmount: "300"},
		{name: "bank with account", input: "bank:250:acc-1", wantMethod: models.PaymentBank, wantAmount: "250", wantAccount: "acc-1"},
		{name: "borrowed from member by name", input: "borrowed:300:ravi", wantMethod: models.PaymentBorrowed, wantAmount: "300", wantLenderID: "u2"},
		{name: "borrowed from member by id", input: "borrowed:300:u2", wantMethod: models.PaymentBorrowed, wantAmount: "300", wantLenderID: "u2"},
		{name: "borrowed from outsider", input: "borrowed:200:Mohan", wantMethod: models.PaymentBorrowed, wantAmount: "200", wantOutsider: "Mohan"},
		{name: "borrowed without lender", input: "borrowed:200", wantErr: true},
		{name: "unknown method", input: "cheque:100", wantErr: true},
		{name: "missing amount", input: "cash", wantErr: true},
		{name: "bad amount", input: "cash:ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := parseLine(tt.input, "id-1", "u1", users)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLine(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if line.ID != "id-1" || line.PayerUserID != "u1" {
				t.Errorf("ID/PayerUserID = %v/%v", line.ID, line.PayerUserID)
			}
			if line.Method != tt.wantMethod || !line.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("Method/Amount = %v/%v, want %v/%v", line.Method, line.Amount, tt.wantMethod, tt.wantAmount)
			}
			if line.AccountID != tt.wantAccount {
				t.Errorf("AccountID = %q, want %q", line.AccountID, tt.wantAccount)
			}

			if tt.wantLenderID == "" && tt.wantOutsider == "" {
				if line.BorrowedFrom != nil {
					t.Errorf("BorrowedFrom = %+v, want nil", line.BorrowedFrom)
				}
				return
			}
			if line.BorrowedFrom == nil {
				t.Fatal("BorrowedFrom is nil")
			}
			if line.BorrowedFrom.LenderUserID != tt.wantLenderID || line.BorrowedFrom.LenderName != tt.wantOutsider {
				t.Errorf("BorrowedFrom = %+v", line.BorrowedFrom)
			}
		})
	}
}
