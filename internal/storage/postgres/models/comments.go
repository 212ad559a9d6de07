package models

import (
	"context"
	"errors"

	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var commentColumns = []string{"id", "movie_id", "user_id", "username", "text", "rating", "created_at", "updated_at"}

type CommentModel struct {
	DB *pgxpool.Pool
}

func (m *CommentModel) collectOne(ctx context.Context, query sq.Sqlizer) (*models.Comment, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) Get(ctx context.Context, id int64) (*models.Comment, error) {
	return m.collectOne(ctx, psql.Select(commentColumns...).From("comments").Where(sq.Eq{"id": id}))
}

func (m *CommentModel) Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := psql.Insert("comments").
		Columns(commentColumns[1:]...).
		Values(
			comment.MovieID, comment.UserID, comment.Username, comment.Text, comment.Rating,
			comment.CreatedAt, comment.UpdatedAt,
		).
		Suffix(returning(commentColumns))
	return m.collectOne(ctx, query)
}

func (m *CommentModel) ListForMovie(ctx context.Context, movieID int64) ([]models.Comment, error) {
	sql, args, err := psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"movie_id": movieID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Comment])
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := psql.Update("comments").
		Set("text", comment.Text).
		Set("rating", comment.Rating).
		Set("updated_at", comment.UpdatedAt).
		Where(sq.Eq{"id": comment.ID}).
		Suffix(returning(commentColumns))
	return m.collectOne(ctx, query)
}

func (m *CommentModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *CommentModel) DeleteForMovie(ctx context.Context, movieID int64) (int, error) {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE movie_id = $1", movieID)
	if err != nil {
		return 0, err
	}
	return int(status.RowsAffected()), nil
}

func (m *CommentModel) CountByAuthor(ctx context.Context, userID int64) (int, error) {
	var count int
	err := m.DB.QueryRow(ctx, "SELECT count(*) FROM comments WHERE user_id = $1", userID).Scan(&count)
	return count, err
}
