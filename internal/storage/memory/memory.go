// Package memory keeps every collection in process memory. It backs the
// test suites and the `storage: memory` mode used for local development;
// nothing survives a restart.
package memory

import (
	"sync"

	"movielib/proj/internal/domain/models"
)

type db struct {
	mu       sync.RWMutex
	movies   map[int64]models.Movie
	comments map[int64]models.Comment
	users    map[int64]models.User
	seq      struct{ movies, comments, users int64 }
}

type Models struct {
	Movie   *MovieModel
	Comment *CommentModel
	User    *UserModel
	Session *SessionModel
}

func New() *Models {
	d := &db{
		movies:   make(map[int64]models.Movie),
		comments: make(map[int64]models.Comment),
		users:    make(map[int64]models.User),
	}
	return &Models{
		Movie:   &MovieModel{db: d},
		Comment: &CommentModel{db: d},
		User:    &UserModel{db: d},
		Session: NewSessionModel(),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
