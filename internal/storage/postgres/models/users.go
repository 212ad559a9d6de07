package models

import (
	"context"
	"errors"

	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
	"movielib/proj/internal/storage/postgres"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at"}

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) collectOne(ctx context.Context, query sq.Sqlizer) (*models.User, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		case postgres.IsUniqueViolation(err):
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.collectOne(ctx, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}))
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.collectOne(ctx, psql.Select(userColumns...).From("users").Where(sq.Expr("lower(email) = lower(?)", email)))
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	query := psql.Insert("users").
		Columns(userColumns[1:]...).
		Values(user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt).
		Suffix(returning(userColumns))
	return m.collectOne(ctx, query)
}

func (m *UserModel) List(ctx context.Context) ([]models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
}

func (m *UserModel) UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	query := psql.Update("users").
		Set("role", role).
		Where(sq.Eq{"id": id}).
		Suffix(returning(userColumns))
	return m.collectOne(ctx, query)
}
