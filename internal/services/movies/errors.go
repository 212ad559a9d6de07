package movies

import "movielib/proj/internal/domain/apperr"

var (
	ErrMovieNotFound = apperr.New(apperr.ErrNotFound, "movie not found")
	// ErrCascadeIncomplete reports a movie that was deleted while some of
	// its comments were left behind.
	ErrCascadeIncomplete = apperr.New(apperr.ErrConflict, "movie deleted, but its comments could not be removed")
)
