package memory

import (
	"cmp"
	"context"
	"slices"

	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"
)

type CommentModel struct {
	db *db
}

func cloneComment(c models.Comment) *models.Comment {
	c.Rating = clonePtr(c.Rating)
	return &c
}

func (m *CommentModel) Get(ctx context.Context, id int64) (*models.Comment, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	comment, ok := m.db.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneComment(comment), nil
}

func (m *CommentModel) Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.seq.comments++
	stored := *cloneComment(*comment)
	stored.ID = m.db.seq.comments
	m.db.comments[stored.ID] = stored
	return cloneComment(stored), nil
}

// ListForMovie returns the comments of a movie, newest first.
func (m *CommentModel) ListForMovie(ctx context.Context, movieID int64) ([]models.Comment, error) {
	m.db.mu.RLock()
	comments := make([]models.Comment, 0)
	for _, c := range m.db.comments {
		if c.MovieID == movieID {
			comments = append(comments, *cloneComment(c))
		}
	}
	m.db.mu.RUnlock()
	slices.SortFunc(comments, func(a, b models.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return comments, nil
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	current, ok := m.db.comments[comment.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	current.Text = comment.Text
	current.Rating = clonePtr(comment.Rating)
	current.UpdatedAt = comment.UpdatedAt
	m.db.comments[current.ID] = current
	return cloneComment(current), nil
}

func (m *CommentModel) Delete(ctx context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.comments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.db.comments, id)
	return nil
}

func (m *CommentModel) DeleteForMovie(ctx context.Context, movieID int64) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	deleted := 0
	for id, c := range m.db.comments {
		if c.MovieID == movieID {
			delete(m.db.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *CommentModel) CountByAuthor(ctx context.Context, userID int64) (int, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	count := 0
	for _, c := range m.db.comments {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}
