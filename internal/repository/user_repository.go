package repository

import (
	"context"

	"voxpense/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = "id, username, email, password, COALESCE(google_id, ''), created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns("id", "username", "email", "password", "google_id", "created_at", "updated_at").
		Values(user.ID, user.Username, user.Email, user.Password, nullable(user.GoogleID), user.CreatedAt, user.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"google_id": googleID})
}

// UpsertGoogle creates the user on first OAuth login, or refreshes the linked
// Google identity and profile fields on subsequent logins.
func (r *UserRepository) UpsertGoogle(ctx context.Context, user *models.User) (*models.User, error) {
	sql := `
		INSERT INTO users (id, username, email, password, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $5, $5)
		ON CONFLICT (email) DO UPDATE
		SET google_id = EXCLUDED.google_id,
		    username = EXCLUDED.username,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	var out models.User
	err := r.db.QueryRow(ctx, sql, user.ID, user.Username, user.Email, nullable(user.GoogleID), user.CreatedAt).Scan(
		&out.ID, &out.Username, &out.Email, &out.Password, &out.GoogleID, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq) (*models.User, error) {
	query := squirrel.Select("id", "username", "email", "password", "COALESCE(google_id, '')", "created_at", "updated_at").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.GoogleID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
