package models

import (
	"context"
	"errors"
	"fmt"

	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var movieColumns = []string{
	"id", "title", "genre", "release_year", "rating", "director", "duration",
	"description", "user_id", "public", "created_at", "updated_at",
}

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) collectOne(ctx context.Context, query sq.Sqlizer) (*models.Movie, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (m *MovieModel) Get(ctx context.Context, id int64) (*models.Movie, error) {
	return m.collectOne(ctx, psql.Select(movieColumns...).From("movies").Where(sq.Eq{"id": id}))
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query := psql.Insert("movies").
		Columns(movieColumns[1:]...).
		Values(
			movie.Title, movie.Genre, movie.ReleaseYear, movie.Rating, movie.Director, movie.Duration,
			movie.Description, movie.UserID, movie.Public, movie.CreatedAt, movie.UpdatedAt,
		).
		Suffix(returning(movieColumns))
	return m.collectOne(ctx, query)
}

func movieWhere(filter filters.MovieFilter) sq.And {
	where := sq.And{}
	if filter.PublicOnly {
		where = append(where, sq.Eq{"public": true})
	}
	if filter.Title != "" {
		where = append(where, sq.ILike{"title": containsPattern(filter.Title)})
	}
	if filter.Genre != "" {
		where = append(where, sq.Expr("lower(genre) = lower(?)", filter.Genre))
	}
	return where
}

func (m *MovieModel) List(ctx context.Context, filter filters.MovieFilter, f filters.Filters) ([]models.Movie, int, error) {
	where := movieWhere(filter)

	countSQL, countArgs, err := psql.Select("count(*)").From("movies").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := m.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Movie{}, 0, nil
	}

	sql, args, err := psql.Select(movieColumns...).
		From("movies").
		Where(where).
		OrderBy(fmt.Sprintf("%s %s", f.SortColumn(), f.SortDirection()), "id ASC").
		Limit(uint64(f.Limit())).
		Offset(uint64(f.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, _ := m.DB.Query(ctx, sql, args...)
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func (m *MovieModel) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query := psql.Update("movies").
		SetMap(map[string]any{
			"title":        movie.Title,
			"genre":        movie.Genre,
			"release_year": movie.ReleaseYear,
			"rating":       movie.Rating,
			"director":     movie.Director,
			"duration":     movie.Duration,
			"description":  movie.Description,
			"public":       movie.Public,
			"updated_at":   movie.UpdatedAt,
		}).
		Where(sq.Eq{"id": movie.ID}).
		Suffix(returning(movieColumns))
	return m.collectOne(ctx, query)
}

func (m *MovieModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *MovieModel) CountByOwner(ctx context.Context, userID int64) (int, error) {
	var count int
	err := m.DB.QueryRow(ctx, "SELECT count(*) FROM movies WHERE user_id = $1", userID).Scan(&count)
	return count, err
}
