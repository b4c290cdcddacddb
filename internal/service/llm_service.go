package service

import (
	"context"
	"fmt"

	"voxpense/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

// buildSystemInstruction pins the model to the extraction task so every
// request only has to carry the transcript
func buildSystemInstruction() string {
	return `You are an assistant inside a voice expense-logging app. Users dictate a single expense in natural speech; you turn the transcript into structured fields.

Always answer with a single JSON object of this exact shape:
{
  "amount": number (the spent amount, non-negative, no currency symbol),
  "date": "YYYY-MM-DD" (the transaction date; resolve words like "yesterday" relative to today; empty string if no date is mentioned),
  "memo": "short free-text description of what was bought",
  "category": "one short category label such as Food, Transport, Shopping, Utilities, Entertainment, Health, Other"
}

Rules:
- Return ONLY the JSON object. No commentary before or after.
- Never invent an amount. If no amount is audible, use 0.
- Keep the memo under 100 characters.
- If the transcript is not about an expense at all, still return the object with amount 0 and the transcript as memo.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.3

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends a single chat-completion request and returns the message content
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
