package models

import (
	"context"
	"os"
	"testing"
	"time"

	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
	"movielib/proj/internal/storage/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModels(t *testing.T) *Models {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, dsn, 4, time.Minute)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate())
	_, err = db.Conn.Exec(ctx, "TRUNCATE comments, movies, users RESTART IDENTITY")
	require.NoError(t, err)
	return New(db)
}

func insertUser(t *testing.T, m *Models, email string) *models.User {
	t.Helper()
	user, err := m.User.Insert(context.Background(), &models.User{
		Username:     "user",
		Email:        email,
		PasswordHash: []byte("hash"),
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return user
}

func TestUserModel(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	user := insertUser(t, m, "Bob@Example.com")

	t.Run("email lookup ignores case", func(t *testing.T) {
		got, err := m.User.GetByEmail(ctx, "bob@example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})
	t.Run("duplicate email", func(t *testing.T) {
		_, err := m.User.Insert(ctx, &models.User{
			Username: "other", Email: "BOB@example.com", PasswordHash: []byte("x"), Role: models.RoleUser,
		})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})
	t.Run("update role", func(t *testing.T) {
		got, err := m.User.UpdateRole(ctx, user.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})
	t.Run("missing user", func(t *testing.T) {
		_, err := m.User.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = m.User.UpdateRole(ctx, 9999, models.RoleAdmin)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestMovieModel(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	owner := insertUser(t, m, "admin@example.com")
	now := time.Now().UTC().Truncate(time.Microsecond)
	rating := 7.5

	for i, title := range []string{"Alien", "Heat", "Aliens_2"} {
		_, err := m.Movie.Insert(ctx, &models.Movie{
			Title:     title,
			Genre:     "Drama",
			Rating:    &rating,
			UserID:    owner.ID,
			Public:    i != 1,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
			UpdatedAt: now,
		})
		require.NoError(t, err)
	}
	safelist := []string{"created_at", "title", "release_year", "rating"}

	t.Run("list newest first", func(t *testing.T) {
		movies, total, err := m.Movie.List(ctx, filters.MovieFilter{}, filters.New(1, 2, "", "-created_at", safelist))
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, movies, 2)
		assert.Equal(t, "Aliens_2", movies[0].Title)
	})
	t.Run("public only with escaped title", func(t *testing.T) {
		movies, total, err := m.Movie.List(ctx, filters.MovieFilter{PublicOnly: true, Title: "s_"}, filters.New(1, 10, "title", "-created_at", safelist))
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, movies, 1)
		assert.Equal(t, "Aliens_2", movies[0].Title)
	})
	t.Run("update and delete", func(t *testing.T) {
		movie, err := m.Movie.Get(ctx, 1)
		require.NoError(t, err)
		movie.Title = "Alien (1979)"
		updated, err := m.Movie.Update(ctx, movie)
		require.NoError(t, err)
		assert.Equal(t, "Alien (1979)", updated.Title)

		require.NoError(t, m.Movie.Delete(ctx, 1))
		assert.ErrorIs(t, m.Movie.Delete(ctx, 1), storage.ErrNotFound)
	})
	t.Run("count by owner", func(t *testing.T) {
		count, err := m.Movie.CountByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestCommentModel(t *testing.T) {
	m := newTestModels(t)
	ctx := context.Background()
	author := insertUser(t, m, "author@example.com")
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, err := m.Comment.Insert(ctx, &models.Comment{
			MovieID:   42,
			UserID:    author.ID,
			Username:  author.Username,
			Text:      "nice",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			UpdatedAt: now,
		})
		require.NoError(t, err)
	}

	comments, err := m.Comment.ListForMovie(ctx, 42)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, int64(3), comments[0].ID)

	count, err := m.Comment.CountByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := m.Comment.DeleteForMovie(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.ErrorIs(t, m.Comment.Delete(ctx, 1), storage.ErrNotFound)
}
