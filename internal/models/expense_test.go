package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseTxDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2026-03-14",
			want:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day",
			input: "2024-02-29",
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "wrong layout",
			input:   "14/03/2026",
			wantErr: true,
		},
		{
			name:    "impossible day",
			input:   "2026-02-30",
			wantErr: true,
		},
		{
			name:    "date with time component",
			input:   "2026-03-14T10:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTxDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseTxDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTxDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTxDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTxDate_EmptyDefaultsToToday(t *testing.T) {
	got, err := ParseTxDate("")
	if err != nil {
		t.Fatalf("ParseTxDate(\"\") unexpected error: %v", err)
	}

	now := time.Now()
	if got.Year() != now.Year() || got.Month() != now.Month() || got.Day() != now.Day() {
		t.Errorf("ParseTxDate(\"\") = %v, want today's calendar day", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("ParseTxDate(\"\") = %v, want midnight", got)
	}
}

func TestExpenseValidate(t *testing.T) {
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{
			name:    "valid expense",
			expense: Expense{Amount: 12.50, TxDate: day},
		},
		{
			name:    "zero amount is allowed",
			expense: Expense{Amount: 0, TxDate: day},
		},
		{
			name:    "negative amount rejected",
			expense: Expense{Amount: -0.01, TxDate: day},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "zero date rejected",
			expense: Expense{Amount: 5},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
