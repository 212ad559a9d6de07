package comments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/policy"
	"movielib/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type CommentsStorage interface {
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListForMovie(ctx context.Context, movieID int64) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type MoviesGetter interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
}

type CommentService struct {
	log       *slog.Logger
	storage   CommentsStorage
	movies    MoviesGetter
	validator *govalidator.Validate
	now       func() time.Time
}

func New(log *slog.Logger, storage CommentsStorage, movies MoviesGetter, validator *govalidator.Validate) *CommentService {
	return &CommentService{
		log:       log,
		storage:   storage,
		movies:    movies,
		validator: validator,
		now:       time.Now,
	}
}

type CreateCommentDTO struct {
	Text   string   `json:"text" validate:"required,max=1000"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

type UpdateCommentDTO struct {
	Text   *string  `json:"text" validate:"omitempty,min=1,max=1000"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
}

func (s *CommentService) validate(obj any) error {
	if errs := validator.ValidateStruct(s.validator, obj); errs != nil {
		return apperr.NewValidationError(errs)
	}
	return nil
}

func storeErr(log *slog.Logger, err error, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("not found", "errMsg", notFound.Error())
		return notFound
	}
	log.Error("storage failure", "errMsg", err.Error())
	return apperr.StoreUnavailable(err)
}

// readableMovie loads the parent movie and checks that p may see it.
func (s *CommentService) readableMovie(ctx context.Context, log *slog.Logger, p models.Principal, movieID int64) error {
	movie, err := s.movies.Get(ctx, movieID)
	if err != nil {
		return storeErr(log, err, ErrMovieNotFound)
	}
	return policy.Decide(p, policy.ActionRead, policy.Movie(movie.Public)).Err()
}

// List returns the comments of a movie, newest first.
func (s *CommentService) List(ctx context.Context, p models.Principal, movieID int64) ([]models.Comment, error) {
	const op = "comments.CommentService.List"
	log := s.log.With("op", op, "movie_id", movieID)
	if err := s.readableMovie(ctx, log, p, movieID); err != nil {
		return nil, err
	}
	comments, err := s.storage.ListForMovie(ctx, movieID)
	if err != nil {
		log.Error("storage failure", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	return comments, nil
}

func (s *CommentService) Create(ctx context.Context, p models.Principal, movieID int64, dto CreateCommentDTO) (*models.Comment, error) {
	const op = "comments.CommentService.Create"
	log := s.log.With("op", op, "movie_id", movieID, "user_id", p.UserID)
	if d := policy.Decide(p, policy.ActionCreate, policy.Comment(p.UserID)); !d.Allowed() {
		log.Info("create denied")
		return nil, d.Err()
	}
	dto.Text = strings.TrimSpace(dto.Text)
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	if err := s.readableMovie(ctx, log, p, movieID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	comment, err := s.storage.Insert(ctx, &models.Comment{
		MovieID:   movieID,
		UserID:    p.UserID,
		Username:  p.Username,
		Text:      dto.Text,
		Rating:    dto.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		log.Error("storage failure", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, p models.Principal, id int64, dto UpdateCommentDTO) (*models.Comment, error) {
	const op = "comments.CommentService.Update"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID)
	comment, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, storeErr(log, err, ErrCommentNotFound)
	}
	if d := policy.Decide(p, policy.ActionUpdate, policy.Comment(comment.UserID)); !d.Allowed() {
		log.Info("update denied", "author_id", comment.UserID)
		return nil, d.Err()
	}
	if dto.Text != nil {
		trimmed := strings.TrimSpace(*dto.Text)
		dto.Text = &trimmed
	}
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	if dto.Text != nil {
		comment.Text = *dto.Text
	}
	if dto.Rating != nil {
		comment.Rating = dto.Rating
	}
	comment.UpdatedAt = s.now().UTC()
	updated, err := s.storage.Update(ctx, comment)
	if err != nil {
		return nil, storeErr(log, err, ErrCommentNotFound)
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, p models.Principal, id int64) error {
	const op = "comments.CommentService.Delete"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID)
	comment, err := s.storage.Get(ctx, id)
	if err != nil {
		return storeErr(log, err, ErrCommentNotFound)
	}
	if d := policy.Decide(p, policy.ActionDelete, policy.Comment(comment.UserID)); !d.Allowed() {
		log.Info("delete denied", "author_id", comment.UserID)
		return d.Err()
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		return storeErr(log, err, ErrCommentNotFound)
	}
	return nil
}
