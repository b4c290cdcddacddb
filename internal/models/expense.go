package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for transaction dates. Dates are calendar
// days, never shifted through time zones.
const DateLayout = "2006-01-02"

var (
	ErrNegativeAmount = errors.New("amount must be non-negative")
	ErrInvalidDate    = errors.New("invalid transaction date")
)

type Expense struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	UserEmail  string    `db:"user_email"`
	Amount     float64   `db:"amount"`
	TxDate     time.Time `db:"tx_date"`
	Memo       string    `db:"memo"`
	Category   string    `db:"category"`
	Transcript string    `db:"transcript"`
	ReceiptURL string    `db:"receipt_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (e *Expense) Validate() error {
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if e.TxDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ParseTxDate coerces a date string into a calendar day. Empty input falls
// back to today, matching the entry form behavior.
func ParseTxDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
