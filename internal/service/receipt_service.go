package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"voxpense/internal/dto"
	"voxpense/internal/models"
	"voxpense/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptService stores uploaded receipt images in the service's uploads
// directory and returns a public URL the expense row can reference.
type ReceiptService struct {
	receiptRepo *repository.ReceiptRepository
	uploadDir   string
	publicURL   string
	logger      *zap.Logger
}

func NewReceiptService(receiptRepo *repository.ReceiptRepository, uploadDir, publicURL string, logger *zap.Logger) *ReceiptService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &ReceiptService{
		receiptRepo: receiptRepo,
		uploadDir:   uploadDir,
		publicURL:   publicURL,
		logger:      logger,
	}
}

func (s *ReceiptService) Upload(ctx context.Context, userID uuid.UUID, file io.Reader, fileName string) (*dto.ReceiptUploadResponse, error) {
	fileID := uuid.New()
	ext := filepath.Ext(fileName)
	storedName := fileID.String() + ext
	filePath := filepath.Join(s.uploadDir, storedName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	fileSize, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	receipt := &models.Receipt{
		ID:        fileID,
		UserID:    userID,
		FileName:  fileName,
		FileSize:  fileSize,
		FileURL:   s.publicURL + "/" + storedName,
		CreatedAt: time.Now(),
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create receipt record: %w", err)
	}

	return &dto.ReceiptUploadResponse{
		ID:       receipt.ID.String(),
		FileName: receipt.FileName,
		FileSize: receipt.FileSize,
		FileURL:  receipt.FileURL,
	}, nil
}
