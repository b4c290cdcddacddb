package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"voxpense/internal/dto"
	"voxpense/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// CompletionClient is the chat-completion surface ExtractService needs.
// *LLMService satisfies it; tests supply canned responses.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// draftSchema keeps obviously broken model output out of the confirmation
// form. Anything that fails here degrades to the raw-memo fallback.
const draftSchema = `{
	"type": "object",
	"required": ["amount"],
	"properties": {
		"amount": {"type": ["number", "string"]},
		"date": {"type": "string"},
		"memo": {"type": "string"},
		"category": {"type": "string"}
	}
}`

var (
	// fenced code block first, bare object second
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{.*\}`)
	dateRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type ExtractService struct {
	llm    CompletionClient
	schema *jsonschema.Schema
	logger *zap.Logger
}

func NewExtractService(llm CompletionClient, logger *zap.Logger) *ExtractService {
	schema := jsonschema.MustCompileString("draft.json", draftSchema)
	return &ExtractService{
		llm:    llm,
		schema: schema,
		logger: logger,
	}
}

// buildPrompt fills the fixed extraction prompt template with the transcript
func buildPrompt(transcript string) string {
	return fmt.Sprintf(`Extract the expense fields from this spoken transcript.

Transcript:
%s

Return ONLY a JSON object with keys amount, date, memo, category. Use "" for a missing date and 0 for a missing amount. No markdown, no comments.`, transcript)
}

// ExtractExpense turns a transcript into an expense draft. The second return
// reports whether structured fields were parsed; when false the draft carries
// the raw model output as an opaque memo.
func (s *ExtractService) ExtractExpense(ctx context.Context, transcript string) (*dto.ExpenseDraft, bool, error) {
	content, err := s.llm.Complete(ctx, buildPrompt(transcript))
	if err != nil {
		return nil, false, err
	}

	draft, parsed := s.parseDraft(content)
	if !parsed {
		s.logger.Warn("Could not parse expense fields from LLM response, degrading to raw memo",
			zap.Int("response_length", len(content)),
		)
	}
	return draft, parsed, nil
}

// parseDraft extracts a JSON object out of the completion content. The object
// may be fenced in a markdown code block or surrounded by prose.
func (s *ExtractService) parseDraft(content string) (*dto.ExpenseDraft, bool) {
	content = strings.TrimSpace(content)

	jsonStr := ""
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		jsonStr = m[1]
	} else if m := bareJSONRe.FindString(content); m != "" {
		jsonStr = m
	}

	if jsonStr == "" {
		return rawMemoDraft(content), false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return rawMemoDraft(content), false
	}

	if err := s.schema.Validate(fields); err != nil {
		return rawMemoDraft(content), false
	}

	draft := &dto.ExpenseDraft{}

	switch v := fields["amount"].(type) {
	case float64:
		draft.Amount = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return rawMemoDraft(content), false
		}
		draft.Amount = f
	}
	if draft.Amount < 0 {
		draft.Amount = -draft.Amount
	}

	if v, ok := fields["date"].(string); ok {
		v = strings.TrimSpace(v)
		if dateRe.MatchString(v) {
			if _, err := models.ParseTxDate(v); err == nil {
				draft.Date = v
			}
		}
	}
	if v, ok := fields["memo"].(string); ok {
		draft.Memo = sanitizeUTF8(strings.TrimSpace(v))
	}
	if v, ok := fields["category"].(string); ok {
		draft.Category = strings.TrimSpace(v)
	}

	return draft, true
}

func rawMemoDraft(content string) *dto.ExpenseDraft {
	return &dto.ExpenseDraft{Memo: sanitizeUTF8(content)}
}
