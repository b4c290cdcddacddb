package handlers

import (
	"strings"

	"voxpense/internal/dto"
	"voxpense/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type VoiceHandler struct {
	voiceService   *service.VoiceService
	extractService *service.ExtractService
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

func NewVoiceHandler(
	voiceService *service.VoiceService,
	extractService *service.ExtractService,
	expenseService *service.ExpenseService,
	logger *zap.Logger,
) *VoiceHandler {
	return &VoiceHandler{
		voiceService:   voiceService,
		extractService: extractService,
		expenseService: expenseService,
		logger:         logger,
	}
}

// Transcribe godoc
// @Summary Transcribe a voice memo
// @Description Transcribe recorded audio to text via Google Speech-to-Text
// @Tags voice
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file"
// @Security Bearer
// @Success 200 {object} dto.TranscribeResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/voice/transcribe [post]
func (h *VoiceHandler) Transcribe(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio file is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open audio file",
		})
	}
	defer src.Close()

	transcript, err := h.voiceService.Transcribe(c.Context(), src)
	if err != nil {
		switch err {
		case service.ErrSpeechNotConfigured:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Transcription is not configured",
			})
		case service.ErrEmptyTranscript:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No speech recognized in the recording",
			})
		}
		h.logger.Error("Transcription failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Transcription failed",
		})
	}

	return c.JSON(dto.TranscribeResponse{Transcript: transcript})
}

// ParseExpense godoc
// @Summary Extract an expense from a transcript
// @Description Run the transcript through the language model and return a draft; confirm=true saves it with the transcript attached
// @Tags voice
// @Accept json
// @Produce json
// @Param request body dto.VoiceExpenseRequest true "Transcript"
// @Security Bearer
// @Success 200 {object} dto.VoiceExpenseResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/voice/expense [post]
func (h *VoiceHandler) ParseExpense(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.VoiceExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Transcript = strings.TrimSpace(req.Transcript)
	if req.Transcript == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Transcript is required",
		})
	}

	draft, parsed, err := h.extractService.ExtractExpense(c.Context(), req.Transcript)
	if err != nil {
		h.logger.Error("Expense extraction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Expense extraction failed",
		})
	}

	resp := dto.VoiceExpenseResponse{
		Draft:  *draft,
		Parsed: parsed,
	}

	if req.Confirm {
		created, err := h.expenseService.Create(c.Context(), userID, getEmail(c), &dto.CreateExpenseRequest{
			Amount:     draft.Amount,
			Date:       draft.Date,
			Memo:       draft.Memo,
			Category:   draft.Category,
			Transcript: req.Transcript,
		})
		if err != nil {
			h.logger.Error("Failed to save extracted expense", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save expense",
			})
		}
		resp.Expense = created
	}

	return c.JSON(resp)
}
