package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"voxpense/internal/dto"
	"voxpense/internal/events"
	"voxpense/internal/models"
	"voxpense/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidExpense  = errors.New("invalid expense")
)

type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	bus         events.Bus
	logger      *zap.Logger
}

func NewExpenseService(expenseRepo *repository.ExpenseRepository, bus events.Bus, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		bus:         bus,
		logger:      logger,
	}
}

func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, userEmail string, req *dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	txDate, err := models.ParseTxDate(req.Date)
	if err != nil {
		return nil, ErrInvalidExpense
	}

	now := time.Now()
	expense := &models.Expense{
		UserID:     userID,
		UserEmail:  userEmail,
		Amount:     req.Amount,
		TxDate:     txDate,
		Memo:       sanitizeUTF8(req.Memo),
		Category:   req.Category,
		Transcript: sanitizeUTF8(req.Transcript),
		ReceiptURL: req.ReceiptURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := expense.Validate(); err != nil {
		return nil, ErrInvalidExpense
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ExpenseCreated, userID, expense.ID)

	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.ExpenseResponse, error) {
	expense, err := s.expenseRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := s.expenseRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	txDate, err := models.ParseTxDate(req.Date)
	if err != nil {
		return nil, ErrInvalidExpense
	}

	expense.Amount = req.Amount
	expense.TxDate = txDate
	expense.Memo = sanitizeUTF8(req.Memo)
	expense.Category = req.Category
	expense.ReceiptURL = req.ReceiptURL

	if err := expense.Validate(); err != nil {
		return nil, ErrInvalidExpense
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	s.publish(ctx, events.ExpenseUpdated, userID, expense.ID)

	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return err
	}

	s.publish(ctx, events.ExpenseDeleted, userID, id)
	return nil
}

func (s *ExpenseService) List(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]*dto.ExpenseResponse, error) {
	expenses, err := s.expenseRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = toExpenseResponse(e)
	}
	return responses, nil
}

// ListMonthly returns the user's expenses grouped by year+month, newest month
// first, with per-month and per-category totals for the list headers.
func (s *ExpenseService) ListMonthly(ctx context.Context, userID uuid.UUID) (*dto.MonthlyExpensesResponse, error) {
	expenses, err := s.expenseRepo.ListByUserID(ctx, userID, repository.ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	return &dto.MonthlyExpensesResponse{Months: GroupByMonth(expenses)}, nil
}

// GroupByMonth buckets expenses into year+month sections sorted descending.
// Input order within a month is preserved (repository returns date-descending).
func GroupByMonth(expenses []*models.Expense) []dto.MonthGroup {
	type key struct {
		year  int
		month int
	}

	buckets := make(map[key]*dto.MonthGroup)
	order := make([]key, 0)

	for _, e := range expenses {
		k := key{year: e.TxDate.Year(), month: int(e.TxDate.Month())}
		group, ok := buckets[k]
		if !ok {
			group = &dto.MonthGroup{Year: k.year, Month: k.month}
			buckets[k] = group
			order = append(order, k)
		}
		group.Total += e.Amount
		group.Expenses = append(group.Expenses, *toExpenseResponse(e))
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year > order[j].year
		}
		return order[i].month > order[j].month
	})

	groups := make([]dto.MonthGroup, 0, len(order))
	for _, k := range order {
		group := buckets[k]
		group.ByCategory = categoryTotals(group.Expenses)
		groups = append(groups, *group)
	}
	return groups
}

func categoryTotals(expenses []dto.ExpenseResponse) []dto.CategoryTotal {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range expenses {
		cat := e.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		if _, ok := totals[cat]; !ok {
			order = append(order, cat)
		}
		totals[cat] += e.Amount
	}

	sort.Strings(order)
	out := make([]dto.CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, dto.CategoryTotal{Category: cat, Total: totals[cat]})
	}
	return out
}

func (s *ExpenseService) publish(ctx context.Context, t events.EventType, userID, expenseID uuid.UUID) {
	if err := s.bus.Publish(ctx, events.NewEvent(t, userID, expenseID)); err != nil {
		// change feed is best effort, the row itself is already committed
		s.logger.Warn("Failed to publish expense event", zap.Error(err))
	}
}

func toExpenseResponse(e *models.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:         e.ID.String(),
		Amount:     e.Amount,
		Date:       e.TxDate.Format(models.DateLayout),
		Memo:       e.Memo,
		Category:   e.Category,
		Transcript: e.Transcript,
		ReceiptURL: e.ReceiptURL,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
