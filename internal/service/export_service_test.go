package service

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"voxpense/internal/models"
)

func TestRenderCSV(t *testing.T) {
	expenses := []*models.Expense{
		{
			Amount:     12.5,
			TxDate:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			Category:   "Food",
			Memo:       "coffee, two croissants",
			Transcript: `he said "twelve fifty"`,
			ReceiptURL: "/uploads/abc.jpg",
		},
		{
			Amount:   0,
			TxDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Category: "",
			Memo:     "free sample",
		},
	}

	data, err := RenderCSV(expenses)
	if err != nil {
		t.Fatalf("RenderCSV() unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(records))
	}

	wantHeader := []string{"Date", "Amount", "Category", "Memo", "Transcript", "Receipt URL"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	first := records[1]
	if first[0] != "2026-03-14" {
		t.Errorf("date = %q, want 2026-03-14", first[0])
	}
	if first[1] != "12.50" {
		t.Errorf("amount = %q, want 12.50", first[1])
	}
	// fields with commas and quotes survive the round trip intact
	if first[3] != "coffee, two croissants" {
		t.Errorf("memo = %q, want the original text", first[3])
	}
	if first[4] != `he said "twelve fifty"` {
		t.Errorf("transcript = %q, want the original text", first[4])
	}

	second := records[2]
	if second[1] != "0.00" {
		t.Errorf("zero amount = %q, want 0.00", second[1])
	}
}

func TestRenderCSV_NoExpenses(t *testing.T) {
	data, err := RenderCSV(nil)
	if err != nil {
		t.Fatalf("RenderCSV(nil) unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d rows, want header only", len(records))
	}
}
