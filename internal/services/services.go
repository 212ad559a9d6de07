package services

import (
	"log/slog"

	"movielib/proj/internal/config"
	"movielib/proj/internal/services/auth"
	"movielib/proj/internal/services/comments"
	"movielib/proj/internal/services/movies"
	"movielib/proj/internal/services/users"

	govalidator "github.com/go-playground/validator/v10"
)

type MoviesStorage interface {
	movies.MoviesStorage
	users.MoviesCounter
}

type CommentsStorage interface {
	comments.CommentsStorage
	movies.CommentsCascader
	users.CommentsCounter
}

type UsersStorage interface {
	auth.UsersStorage
	users.UsersStorage
}

// Storage groups the collections every service works with. Both the
// postgres and the memory models satisfy it.
type Storage struct {
	Movies   MoviesStorage
	Comments CommentsStorage
	Users    UsersStorage
	Sessions auth.SessionStore
}

type Services struct {
	Auth     *auth.AuthService
	Movies   *movies.MovieService
	Comments *comments.CommentService
	Users    *users.UserService
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	storage Storage,
	mailer auth.MailProvider,
	taskExecutor auth.TaskExecutor,
	validator *govalidator.Validate,
) *Services {
	return &Services{
		Auth: auth.New(
			log,
			storage.Users,
			storage.Sessions,
			auth.NewTokenManager(cfg.Session.Secret),
			mailer,
			taskExecutor,
			validator,
			auth.Options{SessionTTL: cfg.Session.TTL, BcryptCost: cfg.BcryptCost},
		),
		Movies:   movies.New(log, storage.Movies, storage.Comments, validator),
		Comments: comments.New(log, storage.Comments, storage.Movies, validator),
		Users:    users.New(log, storage.Users, storage.Movies, storage.Comments, validator),
	}
}
