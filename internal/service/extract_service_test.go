package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// cannedLLM returns a fixed completion regardless of the prompt.
type cannedLLM struct {
	content string
	err     error
}

func (c *cannedLLM) Complete(_ context.Context, _ string) (string, error) {
	return c.content, c.err
}

func TestExtractService_ExtractExpense(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantParsed   bool
		wantAmount   float64
		wantDate     string
		wantMemo     string
		wantCategory string
	}{
		{
			name:         "bare json object",
			content:      `{"amount": 12.5, "date": "2026-03-14", "memo": "coffee with Anna", "category": "Food"}`,
			wantParsed:   true,
			wantAmount:   12.5,
			wantDate:     "2026-03-14",
			wantMemo:     "coffee with Anna",
			wantCategory: "Food",
		},
		{
			name: "fenced json block",
			content: "Here is the extraction:\n```json\n" +
				`{"amount": 80, "date": "2026-01-05", "memo": "electricity", "category": "Utilities"}` +
				"\n```\nLet me know if you need anything else.",
			wantParsed:   true,
			wantAmount:   80,
			wantDate:     "2026-01-05",
			wantMemo:     "electricity",
			wantCategory: "Utilities",
		},
		{
			name:       "json surrounded by prose",
			content:    `Sure! The fields are {"amount": 4.8, "memo": "bus ticket"} as requested.`,
			wantParsed: true,
			wantAmount: 4.8,
			wantMemo:   "bus ticket",
		},
		{
			name:       "amount as string",
			content:    `{"amount": "23.50", "memo": "groceries"}`,
			wantParsed: true,
			wantAmount: 23.5,
			wantMemo:   "groceries",
		},
		{
			name:       "negative amount is folded to positive",
			content:    `{"amount": -15.25, "memo": "pharmacy"}`,
			wantParsed: true,
			wantAmount: 15.25,
			wantMemo:   "pharmacy",
		},
		{
			name:       "bad date is dropped, rest kept",
			content:    `{"amount": 9.99, "date": "tomorrow", "memo": "subscription"}`,
			wantParsed: true,
			wantAmount: 9.99,
			wantDate:   "",
			wantMemo:   "subscription",
		},
		{
			name:       "impossible calendar date is dropped",
			content:    `{"amount": 9.99, "date": "2026-02-30", "memo": "subscription"}`,
			wantParsed: true,
			wantAmount: 9.99,
			wantDate:   "",
			wantMemo:   "subscription",
		},
		{
			name:       "whitespace trimmed from fields",
			content:    `{"amount": 3, "memo": "  taxi  ", "category": " Transport "}`,
			wantParsed: true,
			wantAmount: 3,
			wantMemo:     "taxi",
			wantCategory: "Transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExtractService(&cannedLLM{content: tt.content}, zap.NewNop())

			draft, parsed, err := svc.ExtractExpense(context.Background(), "some transcript")
			if err != nil {
				t.Fatalf("ExtractExpense() unexpected error: %v", err)
			}
			if parsed != tt.wantParsed {
				t.Fatalf("ExtractExpense() parsed = %v, want %v", parsed, tt.wantParsed)
			}
			if draft.Amount != tt.wantAmount {
				t.Errorf("draft.Amount = %v, want %v", draft.Amount, tt.wantAmount)
			}
			if draft.Date != tt.wantDate {
				t.Errorf("draft.Date = %q, want %q", draft.Date, tt.wantDate)
			}
			if draft.Memo != tt.wantMemo {
				t.Errorf("draft.Memo = %q, want %q", draft.Memo, tt.wantMemo)
			}
			if draft.Category != tt.wantCategory {
				t.Errorf("draft.Category = %q, want %q", draft.Category, tt.wantCategory)
			}
		})
	}
}

func TestExtractService_RawMemoFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no json at all",
			content: "I could not determine the expense from that.",
		},
		{
			name:    "malformed json",
			content: `{"amount": 12.5, "memo": "coffee"`,
		},
		{
			name:    "missing required amount",
			content: `{"memo": "coffee", "category": "Food"}`,
		},
		{
			name:    "amount is not a number",
			content: `{"amount": "a dozen", "memo": "eggs"}`,
		},
		{
			name:    "amount has wrong type",
			content: `{"amount": [12.5], "memo": "coffee"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExtractService(&cannedLLM{content: tt.content}, zap.NewNop())

			draft, parsed, err := svc.ExtractExpense(context.Background(), "some transcript")
			if err != nil {
				t.Fatalf("ExtractExpense() unexpected error: %v", err)
			}
			if parsed {
				t.Fatal("ExtractExpense() parsed = true, want fallback")
			}
			if draft.Memo == "" {
				t.Error("fallback draft should carry the raw response as memo")
			}
			if draft.Amount != 0 || draft.Date != "" || draft.Category != "" {
				t.Errorf("fallback draft should only set memo, got %+v", draft)
			}
		})
	}
}

func TestExtractService_CompletionError(t *testing.T) {
	wantErr := errors.New("upstream unavailable")
	svc := NewExtractService(&cannedLLM{err: wantErr}, zap.NewNop())

	_, _, err := svc.ExtractExpense(context.Background(), "some transcript")
	if !errors.Is(err, wantErr) {
		t.Fatalf("ExtractExpense() error = %v, want %v", err, wantErr)
	}
}

func TestBuildPrompt_ContainsTranscript(t *testing.T) {
	prompt := buildPrompt("spent five dollars on coffee")
	if !strings.Contains(prompt, "spent five dollars on coffee") {
		t.Error("prompt should embed the transcript verbatim")
	}
}
