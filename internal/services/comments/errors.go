package comments

import "movielib/proj/internal/domain/apperr"

var (
	ErrCommentNotFound = apperr.New(apperr.ErrNotFound, "comment not found")
	ErrMovieNotFound   = apperr.New(apperr.ErrNotFound, "movie not found")
)
