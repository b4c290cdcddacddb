package main

import (
	"context"
	"log"
	"time"

	"voxpense/internal/models"
	"voxpense/internal/repository"
	"voxpense/pkg/auth"
	"voxpense/pkg/config"
	"voxpense/pkg/logger"
	"voxpense/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Seeds a demo account with a month of expenses for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := postgres.RunMigrations(&cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	const demoEmail = "demo@voxpense.app"

	user, err := userRepo.GetByEmail(ctx, demoEmail)
	if err != nil {
		hashed, err := auth.HashPassword("demo-password")
		if err != nil {
			appLogger.Fatal("Failed to hash password", zap.Error(err))
		}

		now := time.Now()
		user = &models.User{
			ID:        uuid.New(),
			Username:  "demo",
			Email:     demoEmail,
			Password:  hashed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			appLogger.Fatal("Failed to create demo user", zap.Error(err))
		}
		appLogger.Info("Created demo user", zap.String("email", demoEmail))
	} else {
		appLogger.Info("Demo user already exists, skipping", zap.String("email", demoEmail))
	}

	samples := []struct {
		daysAgo    int
		amount     float64
		memo       string
		category   string
		transcript string
	}{
		{0, 4.80, "Morning coffee", "Food", "spent four eighty on coffee this morning"},
		{1, 23.50, "Groceries at the market", "Food", "twenty three fifty for groceries"},
		{2, 12.00, "Bus pass top-up", "Transport", "topped up my bus pass twelve dollars"},
		{5, 54.99, "New headphones", "Shopping", "bought headphones for fifty five bucks"},
		{12, 9.99, "Streaming subscription", "Entertainment", "nine ninety nine for the streaming subscription"},
		{20, 80.00, "Electricity bill", "Utilities", "paid eighty for electricity"},
		{34, 15.25, "Pharmacy", "Health", "fifteen twenty five at the pharmacy"},
		{41, 32.40, "Dinner with friends", "Food", "dinner out was thirty two forty"},
	}

	created := 0
	for _, sample := range samples {
		now := time.Now()
		day := now.AddDate(0, 0, -sample.daysAgo)
		expense := &models.Expense{
			UserID:     user.ID,
			UserEmail:  user.Email,
			Amount:     sample.amount,
			TxDate:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Memo:       sample.memo,
			Category:   sample.category,
			Transcript: sample.transcript,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := expenseRepo.Create(ctx, expense); err != nil {
			appLogger.Error("Failed to seed expense", zap.String("memo", sample.memo), zap.Error(err))
			continue
		}
		created++
	}

	appLogger.Info("Database seeding completed", zap.Int("expenses", created))
}
