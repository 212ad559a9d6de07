package movies

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/policy"
	"movielib/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

const DefaultSort = "-created_at"

var SortSafelist = []string{"created_at", "title", "release_year", "rating"}

type MoviesStorage interface {
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	List(ctx context.Context, filter filters.MovieFilter, f filters.Filters) ([]models.Movie, int, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}

type CommentsCascader interface {
	DeleteForMovie(ctx context.Context, movieID int64) (int, error)
}

type MovieService struct {
	log       *slog.Logger
	storage   MoviesStorage
	comments  CommentsCascader
	validator *govalidator.Validate
	now       func() time.Time
}

func New(log *slog.Logger, storage MoviesStorage, comments CommentsCascader, validator *govalidator.Validate) *MovieService {
	return &MovieService{
		log:       log,
		storage:   storage,
		comments:  comments,
		validator: validator,
		now:       time.Now,
	}
}

type CreateMovieDTO struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Genre       string   `json:"genre" validate:"required,notblank,max=100"`
	ReleaseYear *int32   `json:"release_year" validate:"omitempty,releaseyear"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Director    *string  `json:"director" validate:"omitempty,max=255"`
	Duration    *int32   `json:"duration" validate:"omitempty,gt=0"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Public      *bool    `json:"public"`
}

// UpdateMovieDTO carries a partial update, nil fields are left unchanged.
type UpdateMovieDTO struct {
	Title       *string  `json:"title" validate:"omitempty,notblank,max=255"`
	Genre       *string  `json:"genre" validate:"omitempty,notblank,max=100"`
	ReleaseYear *int32   `json:"release_year" validate:"omitempty,releaseyear"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Director    *string  `json:"director" validate:"omitempty,max=255"`
	Duration    *int32   `json:"duration" validate:"omitempty,gt=0"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Public      *bool    `json:"public"`
}

type ListMoviesDTO struct {
	Title string `schema:"title" json:"title" validate:"max=255"`
	Genre string `schema:"genre" json:"genre" validate:"max=100"`
	Page  int    `schema:"page" json:"page"`
	Limit int    `schema:"limit" json:"limit"`
	Sort  string `schema:"sort" json:"sort" validate:"omitempty,sortfield=created_at title release_year rating"`
}

func (s *MovieService) validate(obj any) error {
	if errs := validator.ValidateStruct(s.validator, obj); errs != nil {
		return apperr.NewValidationError(errs)
	}
	return nil
}

func (s *MovieService) storageErr(log *slog.Logger, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("movie not found")
		return ErrMovieNotFound
	}
	log.Error("storage failure", "errMsg", err.Error())
	return apperr.StoreUnavailable(err)
}

func (s *MovieService) Get(ctx context.Context, p models.Principal, id int64) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, s.storageErr(log, err)
	}
	if d := policy.Decide(p, policy.ActionRead, policy.Movie(movie.Public)); !d.Allowed() {
		log.Info("read denied", "user_id", p.UserID)
		return nil, d.Err()
	}
	return movie, nil
}

// List returns a page of movies. Anonymous principals only see public ones.
func (s *MovieService) List(ctx context.Context, p models.Principal, dto ListMoviesDTO) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op)
	if err := s.validate(dto); err != nil {
		return nil, filters.Metadata{}, err
	}
	f := filters.New(dto.Page, dto.Limit, dto.Sort, DefaultSort, SortSafelist)
	filter := filters.MovieFilter{
		Title:      dto.Title,
		Genre:      dto.Genre,
		PublicOnly: !policy.Decide(p, policy.ActionRead, policy.Movie(false)).Allowed(),
	}
	movies, total, err := s.storage.List(ctx, filter, f)
	if err != nil {
		log.Error("storage failure", "errMsg", err.Error())
		return nil, filters.Metadata{}, apperr.StoreUnavailable(err)
	}
	return movies, filters.CalculateMetadata(total, f), nil
}

func (s *MovieService) Create(ctx context.Context, p models.Principal, dto CreateMovieDTO) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "user_id", p.UserID, "title", dto.Title)
	if d := policy.Decide(p, policy.ActionCreate, policy.Movie(true)); !d.Allowed() {
		log.Info("create denied")
		return nil, d.Err()
	}
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	movie := &models.Movie{
		Title:       dto.Title,
		Genre:       dto.Genre,
		ReleaseYear: dto.ReleaseYear,
		Rating:      dto.Rating,
		Director:    dto.Director,
		Duration:    dto.Duration,
		Description: dto.Description,
		UserID:      p.UserID,
		Public:      dto.Public == nil || *dto.Public,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.storage.Insert(ctx, movie)
	if err != nil {
		log.Error("storage failure", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	log.Info("movie created", "id", created.ID)
	return created, nil
}

func (s *MovieService) Update(ctx context.Context, p models.Principal, id int64, dto UpdateMovieDTO) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID)
	if d := policy.Decide(p, policy.ActionUpdate, policy.Movie(false)); !d.Allowed() {
		log.Info("update denied")
		return nil, d.Err()
	}
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, s.storageErr(log, err)
	}
	if dto.Title != nil {
		movie.Title = *dto.Title
	}
	if dto.Genre != nil {
		movie.Genre = *dto.Genre
	}
	if dto.ReleaseYear != nil {
		movie.ReleaseYear = dto.ReleaseYear
	}
	if dto.Rating != nil {
		movie.Rating = dto.Rating
	}
	if dto.Director != nil {
		movie.Director = dto.Director
	}
	if dto.Duration != nil {
		movie.Duration = dto.Duration
	}
	if dto.Description != nil {
		movie.Description = dto.Description
	}
	if dto.Public != nil {
		movie.Public = *dto.Public
	}
	movie.UpdatedAt = s.now().UTC()
	updated, err := s.storage.Update(ctx, movie)
	if err != nil {
		return nil, s.storageErr(log, err)
	}
	return updated, nil
}

// Delete removes the movie and then its comments. A failure of the second
// step is reported as ErrCascadeIncomplete.
func (s *MovieService) Delete(ctx context.Context, p models.Principal, id int64) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID)
	if d := policy.Decide(p, policy.ActionDelete, policy.Movie(false)); !d.Allowed() {
		log.Info("delete denied")
		return d.Err()
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		return s.storageErr(log, err)
	}
	removed, err := s.comments.DeleteForMovie(ctx, id)
	if err != nil {
		log.Error("comment cascade failed", "errMsg", err.Error())
		return errors.Join(ErrCascadeIncomplete, err)
	}
	log.Info("movie deleted", "comments_removed", removed)
	return nil
}
