// Package users implements the admin view of user accounts.
package users

import (
	"context"
	"errors"
	"log/slog"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/policy"
	"movielib/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

var ErrUserNotFound = apperr.New(apperr.ErrNotFound, "user not found")

type UsersStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
}

type MoviesCounter interface {
	CountByOwner(ctx context.Context, userID int64) (int, error)
}

type CommentsCounter interface {
	CountByAuthor(ctx context.Context, userID int64) (int, error)
}

type UserService struct {
	log       *slog.Logger
	storage   UsersStorage
	movies    MoviesCounter
	comments  CommentsCounter
	validator *govalidator.Validate
}

func New(log *slog.Logger, storage UsersStorage, movies MoviesCounter, comments CommentsCounter, validator *govalidator.Validate) *UserService {
	return &UserService{
		log:       log,
		storage:   storage,
		movies:    movies,
		comments:  comments,
		validator: validator,
	}
}

type UserWithStats struct {
	*models.User
	Stats models.UserStats `json:"stats"`
}

type UpdateRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func storeErr(log *slog.Logger, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("user not found")
		return ErrUserNotFound
	}
	log.Error("storage failure", "errMsg", err.Error())
	return apperr.StoreUnavailable(err)
}

func (s *UserService) List(ctx context.Context, p models.Principal) ([]models.User, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op, "user_id", p.UserID)
	if d := policy.Decide(p, policy.ActionRead, policy.User(0)); !d.Allowed() {
		log.Info("list denied")
		return nil, d.Err()
	}
	users, err := s.storage.List(ctx)
	if err != nil {
		return nil, storeErr(log, err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, p models.Principal, id int64) (*UserWithStats, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID)
	if d := policy.Decide(p, policy.ActionRead, policy.User(id)); !d.Allowed() {
		log.Info("read denied")
		return nil, d.Err()
	}
	user, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(log, err)
	}
	movies, err := s.movies.CountByOwner(ctx, id)
	if err != nil {
		return nil, storeErr(log, err)
	}
	comments, err := s.comments.CountByAuthor(ctx, id)
	if err != nil {
		return nil, storeErr(log, err)
	}
	return &UserWithStats{User: user, Stats: models.UserStats{Movies: movies, Comments: comments}}, nil
}

// UpdateRole changes the role of user id. Admins cannot demote themselves.
func (s *UserService) UpdateRole(ctx context.Context, p models.Principal, id int64, dto UpdateRoleDTO) (*models.User, error) {
	const op = "users.UserService.UpdateRole"
	log := s.log.With("op", op, "id", id, "user_id", p.UserID, "role", dto.Role)
	// Only admins get to see validation errors for the new role.
	if d := policy.Decide(p, policy.ActionRead, policy.User(id)); !d.Allowed() {
		log.Info("role change denied")
		return nil, d.Err()
	}
	if errs := validator.ValidateStruct(s.validator, dto); errs != nil {
		return nil, apperr.NewValidationError(errs)
	}
	if d := policy.Decide(p, policy.ActionUpdate, policy.UserRole(id, models.Role(dto.Role))); !d.Allowed() {
		log.Info("role change denied")
		return nil, d.Err()
	}
	user, err := s.storage.UpdateRole(ctx, id, models.Role(dto.Role))
	if err != nil {
		return nil, storeErr(log, err)
	}
	log.Info("role changed")
	return user, nil
}
