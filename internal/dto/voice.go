package dto

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// VoiceExpenseRequest submits a transcript for field extraction. When Confirm
// is set the parsed expense is persisted immediately.
type VoiceExpenseRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Confirm    bool   `json:"confirm"`
}

// ExpenseDraft is the extraction result shown on the confirmation form.
// When the language model response cannot be parsed, Amount/Date/Category are
// empty and Memo holds the raw response text.
type ExpenseDraft struct {
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Memo     string  `json:"memo"`
	Category string  `json:"category"`
}

type VoiceExpenseResponse struct {
	Draft   ExpenseDraft     `json:"draft"`
	Parsed  bool             `json:"parsed"`
	Expense *ExpenseResponse `json:"expense,omitempty"`
}

type ReceiptUploadResponse struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileURL  string `json:"file_url"`
}
