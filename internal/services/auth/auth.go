package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func()) error
}

type UsersStorage interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	SessionTTL time.Duration
	BcryptCost int
}

type AuthService struct {
	log          *slog.Logger
	users        UsersStorage
	sessions     SessionStore
	tokens       *TokenManager
	mailer       MailProvider
	taskExecutor TaskExecutor
	validator    *govalidator.Validate
	opts         Options
	now          func() time.Time
}

func New(
	log *slog.Logger,
	users UsersStorage,
	sessions SessionStore,
	tokens *TokenManager,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	validator *govalidator.Validate,
	opts Options,
) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		log:          log,
		users:        users,
		sessions:     sessions,
		tokens:       tokens,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		validator:    validator,
		opts:         opts,
		now:          time.Now,
	}
}

type RegisterDTO struct {
	Username        string `json:"username" validate:"required,notblank,max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" errorMsg:"Passwords do not match"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an authenticated login. Token is the signed value for the
// session cookie.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (a *AuthService) validate(obj any) error {
	if errs := validator.ValidateStruct(a.validator, obj); errs != nil {
		return apperr.NewValidationError(errs)
	}
	return nil
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	const op = "auth.AuthService.sendWelcomeEmail"
	log := a.log.With("op", op, "user_id", user.ID)
	log.Info("sending welcome email")
	err := a.mailer.Send(user.Email, "user_welcome.tmpl", map[string]any{
		"Username": user.Username,
		"UserID":   user.ID,
	})
	if err != nil {
		log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}

// Register creates a regular user and logs it in.
func (a *AuthService) Register(ctx context.Context, dto RegisterDTO) (*Session, error) {
	const op = "auth.AuthService.Register"
	dto.Email = strings.TrimSpace(dto.Email)
	dto.Username = strings.TrimSpace(dto.Username)
	log := a.log.With("op", op, "email", dto.Email)
	if err := a.validate(dto); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), a.opts.BcryptCost)
	if err != nil {
		log.Error("Error hashing password", "errMsg", err.Error())
		return nil, err
	}
	user, err := a.users.Insert(ctx, &models.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("email already registered")
			return nil, ErrEmailTaken
		}
		log.Error("storage failure", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	log.Info("user registered", "user_id", user.ID)
	if err := a.taskExecutor.Add(func() { a.sendWelcomeEmail(user) }); err != nil {
		log.Warn("welcome email not queued", "errMsg", err.Error())
	}
	return a.startSession(ctx, log, user)
}

func (a *AuthService) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", dto.Email)
	if err := a.validate(dto); err != nil {
		return nil, err
	}
	user, err := a.users.GetByEmail(ctx, strings.TrimSpace(dto.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("storage failure", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(dto.Password)); err != nil {
		log.Info("password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return a.startSession(ctx, log, user)
}

func (a *AuthService) startSession(ctx context.Context, log *slog.Logger, user *models.User) (*Session, error) {
	sessionID, err := a.sessions.Create(ctx, user.ID, a.opts.SessionTTL)
	if err != nil {
		log.Error("Error creating session", "errMsg", err.Error())
		return nil, apperr.StoreUnavailable(err)
	}
	token, err := a.tokens.Issue(sessionID, a.opts.SessionTTL)
	if err != nil {
		log.Error("Error issuing session token", "errMsg", err.Error())
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: a.now().Add(a.opts.SessionTTL)}, nil
}

// Logout destroys the session behind token. Unknown or invalid tokens are
// ignored.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	const op = "auth.AuthService.Logout"
	log := a.log.With("op", op)
	sessionID, err := a.tokens.Parse(token)
	if err != nil {
		log.Debug("logout with invalid token", "errMsg", err.Error())
		return nil
	}
	if err := a.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Error("Error deleting session", "errMsg", err.Error())
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// ResolvePrincipal maps a session token to the principal of the request.
// It never fails: every problem resolves to the anonymous principal. The
// role is read from the user store on every call, so role changes apply to
// live sessions.
func (a *AuthService) ResolvePrincipal(ctx context.Context, token string) models.Principal {
	const op = "auth.AuthService.ResolvePrincipal"
	if token == "" {
		return models.AnonymousPrincipal
	}
	log := a.log.With("op", op)
	sessionID, err := a.tokens.Parse(token)
	if err != nil {
		log.Debug("rejected session token", "errMsg", err.Error())
		return models.AnonymousPrincipal
	}
	userID, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("session lookup failed", "errMsg", err.Error())
		}
		return models.AnonymousPrincipal
	}
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("user lookup failed", "errMsg", err.Error(), "user_id", userID)
		}
		return models.AnonymousPrincipal
	}
	return models.NewPrincipal(user)
}

// EnsureAdmin makes sure an admin account with the given email exists,
// creating it or promoting the existing user.
func (a *AuthService) EnsureAdmin(ctx context.Context, email, username, password string) error {
	const op = "auth.AuthService.EnsureAdmin"
	log := a.log.With("op", op, "email", email)
	user, err := a.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			log.Debug("admin already exists")
			return nil
		}
		if _, err := a.users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return apperr.StoreUnavailable(err)
		}
		log.Info("existing user promoted to admin", "user_id", user.ID)
		return nil
	case !errors.Is(err, storage.ErrNotFound):
		return apperr.StoreUnavailable(err)
	}
	if len(password) < 6 {
		return apperr.Invalid("password", "admin password must be at least 6 characters long")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.opts.BcryptCost)
	if err != nil {
		return err
	}
	user, err = a.users.Insert(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    a.now().UTC(),
	})
	if err != nil {
		return apperr.StoreUnavailable(err)
	}
	log.Info("admin created", "user_id", user.ID)
	return nil
}
