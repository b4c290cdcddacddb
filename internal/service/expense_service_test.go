package service

import (
	"testing"
	"time"

	"voxpense/internal/models"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupByMonth(t *testing.T) {
	userID := uuid.New()

	// repository order: newest transaction date first
	expenses := []*models.Expense{
		{ID: uuid.New(), UserID: userID, Amount: 23.50, TxDate: day(2026, time.March, 20), Category: "Food", Memo: "groceries"},
		{ID: uuid.New(), UserID: userID, Amount: 4.80, TxDate: day(2026, time.March, 3), Category: "Food", Memo: "coffee"},
		{ID: uuid.New(), UserID: userID, Amount: 12.00, TxDate: day(2026, time.March, 3), Category: "Transport", Memo: "bus"},
		{ID: uuid.New(), UserID: userID, Amount: 80.00, TxDate: day(2026, time.January, 10), Category: "Utilities", Memo: "electricity"},
		{ID: uuid.New(), UserID: userID, Amount: 9.99, TxDate: day(2025, time.December, 28), Category: "", Memo: "subscription"},
	}

	groups := GroupByMonth(expenses)

	if len(groups) != 3 {
		t.Fatalf("GroupByMonth() returned %d groups, want 3", len(groups))
	}

	wantOrder := []struct {
		year  int
		month int
		total float64
		count int
	}{
		{2026, 3, 40.30, 3},
		{2026, 1, 80.00, 1},
		{2025, 12, 9.99, 1},
	}

	for i, want := range wantOrder {
		got := groups[i]
		if got.Year != want.year || got.Month != want.month {
			t.Errorf("groups[%d] = %d-%02d, want %d-%02d", i, got.Year, got.Month, want.year, want.month)
		}
		if !floatEq(got.Total, want.total) {
			t.Errorf("groups[%d].Total = %v, want %v", i, got.Total, want.total)
		}
		if len(got.Expenses) != want.count {
			t.Errorf("groups[%d] has %d expenses, want %d", i, len(got.Expenses), want.count)
		}
	}

	// within a month the repository order is preserved
	march := groups[0]
	if march.Expenses[0].Memo != "groceries" || march.Expenses[1].Memo != "coffee" || march.Expenses[2].Memo != "bus" {
		t.Errorf("march expense order = %q, %q, %q; want repository order",
			march.Expenses[0].Memo, march.Expenses[1].Memo, march.Expenses[2].Memo)
	}
}

func TestGroupByMonth_CategoryTotals(t *testing.T) {
	userID := uuid.New()
	expenses := []*models.Expense{
		{ID: uuid.New(), UserID: userID, Amount: 10, TxDate: day(2026, time.May, 9), Category: "Food"},
		{ID: uuid.New(), UserID: userID, Amount: 5, TxDate: day(2026, time.May, 8), Category: "Transport"},
		{ID: uuid.New(), UserID: userID, Amount: 7, TxDate: day(2026, time.May, 7), Category: "Food"},
		{ID: uuid.New(), UserID: userID, Amount: 3, TxDate: day(2026, time.May, 6), Category: ""},
	}

	groups := GroupByMonth(expenses)
	if len(groups) != 1 {
		t.Fatalf("GroupByMonth() returned %d groups, want 1", len(groups))
	}

	byCat := groups[0].ByCategory
	want := []struct {
		category string
		total    float64
	}{
		{"Food", 17},
		{"Transport", 5},
		{"Uncategorized", 3},
	}

	if len(byCat) != len(want) {
		t.Fatalf("ByCategory has %d entries, want %d", len(byCat), len(want))
	}
	for i, w := range want {
		if byCat[i].Category != w.category || !floatEq(byCat[i].Total, w.total) {
			t.Errorf("ByCategory[%d] = %s=%v, want %s=%v",
				i, byCat[i].Category, byCat[i].Total, w.category, w.total)
		}
	}
}

func TestGroupByMonth_Empty(t *testing.T) {
	groups := GroupByMonth(nil)
	if len(groups) != 0 {
		t.Errorf("GroupByMonth(nil) returned %d groups, want 0", len(groups))
	}
}

func TestGroupByMonth_DateFormatting(t *testing.T) {
	expenses := []*models.Expense{
		{ID: uuid.New(), UserID: uuid.New(), Amount: 1, TxDate: day(2026, time.February, 5)},
	}

	groups := GroupByMonth(expenses)
	if got := groups[0].Expenses[0].Date; got != "2026-02-05" {
		t.Errorf("expense Date = %q, want 2026-02-05", got)
	}
}

func floatEq(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
