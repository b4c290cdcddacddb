package dto

type CreateExpenseRequest struct {
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // YYYY-MM-DD, empty means today
	Memo       string  `json:"memo"`
	Category   string  `json:"category"`
	Transcript string  `json:"transcript"`
	ReceiptURL string  `json:"receipt_url"`
}

type UpdateExpenseRequest struct {
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Memo       string  `json:"memo"`
	Category   string  `json:"category"`
	ReceiptURL string  `json:"receipt_url"`
}

type ExpenseResponse struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Memo       string  `json:"memo,omitempty"`
	Category   string  `json:"category,omitempty"`
	Transcript string  `json:"transcript,omitempty"`
	ReceiptURL string  `json:"receipt_url,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthGroup is one year+month section of the expense list, newest first.
type MonthGroup struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"` // 1-12
	Total      float64           `json:"total"`
	ByCategory []CategoryTotal   `json:"by_category"`
	Expenses   []ExpenseResponse `json:"expenses"`
}

type MonthlyExpensesResponse struct {
	Months []MonthGroup `json:"months"`
}
