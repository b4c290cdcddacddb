package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"voxpense/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

var (
	ErrSpeechNotConfigured = errors.New("speech-to-text is not configured")
	ErrEmptyTranscript     = errors.New("no speech recognized")
)

// VoiceService transcribes recorded audio through Google Cloud Speech-to-Text.
type VoiceService struct {
	speechSvc *speech.Service
	language  string
	logger    *zap.Logger
}

func NewVoiceService(ctx context.Context, cfg *config.GoogleConfig, logger *zap.Logger) (*VoiceService, error) {
	svc := &VoiceService{
		language: cfg.SpeechLanguage,
		logger:   logger,
	}

	if cfg.SpeechAPIKey == "" {
		// The voice endpoints still accept client-side transcripts
		logger.Warn("GOOGLE_SPEECH_API_KEY not set, audio transcription disabled")
		return svc, nil
	}

	speechSvc, err := speech.NewService(ctx, option.WithAPIKey(cfg.SpeechAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech service: %w", err)
	}
	svc.speechSvc = speechSvc

	return svc, nil
}

// Transcribe runs a synchronous recognition request on a short voice memo and
// returns the concatenated transcript.
func (s *VoiceService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if s.speechSvc == nil {
		return "", ErrSpeechNotConfigured
	}

	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyTranscript
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode:               s.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(data),
		},
	}

	resp, err := s.speechSvc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		parts = append(parts, result.Alternatives[0].Transcript)
	}

	transcript := strings.TrimSpace(strings.Join(parts, " "))
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	s.logger.Info("Audio transcribed",
		zap.Int("audio_bytes", len(data)),
		zap.Int("transcript_length", len(transcript)),
	)

	return sanitizeUTF8(transcript), nil
}
