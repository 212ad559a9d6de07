package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(recipient string, tmplName string, tmplData any) error {
	return m.Called(recipient, tmplName, tmplData).Error(0)
}

type syncExecutor struct{}

func (syncExecutor) Add(task func()) error {
	task()
	return nil
}

type failingSessions struct{}

func (failingSessions) Create(context.Context, int64, time.Duration) (string, error) {
	return "", errors.New("redis down")
}
func (failingSessions) Get(context.Context, string) (int64, error) { return 0, errors.New("redis down") }
func (failingSessions) Delete(context.Context, string) error       { return errors.New("redis down") }

type fixture struct {
	svc    *AuthService
	store  *memory.Models
	mailer *mockMailer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, "user_welcome.tmpl", mock.Anything).Return(nil).Maybe()
	svc := New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		store.User,
		store.Session,
		NewTokenManager(testSecret),
		mailer,
		syncExecutor{},
		validator.New(),
		Options{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost},
	)
	return fixture{svc: svc, store: store, mailer: mailer}
}

func registerDTO(email string) RegisterDTO {
	return RegisterDTO{Username: "bob", Email: email, Password: "secret1", ConfirmPassword: "secret1"}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, session.User.Role)
	assert.NotEmpty(t, session.Token)
	f.mailer.AssertCalled(t, "Send", "bob@example.com", "user_welcome.tmpl", mock.Anything)

	p := f.svc.ResolvePrincipal(ctx, session.Token)
	assert.Equal(t, session.User.ID, p.UserID)
	assert.Equal(t, "bob", p.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)

	dto := registerDTO("BOB@example.com")
	dto.Username = "impostor"
	_, err = f.svc.Register(ctx, dto)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := f.store.User.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, stored.ID)
	assert.Equal(t, "bob", stored.Username)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	dto := registerDTO("not-an-email")
	dto.ConfirmPassword = "other"
	_, err := f.svc.Register(context.Background(), dto)
	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")
	assert.Equal(t, "Passwords do not match", vErr.Fields["confirm_password"])
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)

	session, err := f.svc.Login(ctx, LoginDTO{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, f.svc.ResolvePrincipal(ctx, session.Token).IsAnonymous())

	_, err = f.svc.Login(ctx, LoginDTO{Email: "bob@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, LoginDTO{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, session.Token))
	assert.True(t, f.svc.ResolvePrincipal(ctx, session.Token).IsAnonymous())
	assert.NoError(t, f.svc.Logout(ctx, "garbage"))
}

func TestResolvePrincipalFailClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		assert.True(t, f.svc.ResolvePrincipal(ctx, "").IsAnonymous())
	})
	t.Run("tampered", func(t *testing.T) {
		assert.True(t, f.svc.ResolvePrincipal(ctx, session.Token+"x").IsAnonymous())
	})
	t.Run("foreign signature", func(t *testing.T) {
		token, err := NewTokenManager("another-secret-another-secret-00").Issue("sid", time.Hour)
		require.NoError(t, err)
		assert.True(t, f.svc.ResolvePrincipal(ctx, token).IsAnonymous())
	})
	t.Run("unknown session", func(t *testing.T) {
		token, err := f.svc.tokens.Issue("no-such-session", time.Hour)
		require.NoError(t, err)
		assert.True(t, f.svc.ResolvePrincipal(ctx, token).IsAnonymous())
	})
	t.Run("store failure", func(t *testing.T) {
		svc := *f.svc
		svc.sessions = failingSessions{}
		assert.Equal(t, models.AnonymousPrincipal, svc.ResolvePrincipal(ctx, session.Token))
	})
	t.Run("role read on every request", func(t *testing.T) {
		_, err := f.store.User.UpdateRole(ctx, session.User.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, f.svc.ResolvePrincipal(ctx, session.Token).IsAdmin())
	})
}

func TestLoginSessionStoreDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)

	svc := *f.svc
	svc.sessions = failingSessions{}
	_, err = svc.Login(ctx, LoginDTO{Email: "bob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdmin(ctx, "root@example.com", "root", "rootpass"))
	admin, err := f.store.User.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NoError(t, f.svc.EnsureAdmin(ctx, "root@example.com", "root", "rootpass"))

	session, err := f.svc.Register(ctx, registerDTO("bob@example.com"))
	require.NoError(t, err)
	require.NoError(t, f.svc.EnsureAdmin(ctx, "bob@example.com", "bob", "ignored"))
	bob, err := f.store.User.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, bob.Role)

	assert.ErrorIs(t, f.svc.EnsureAdmin(ctx, "new@example.com", "new", "123"), apperr.ErrInvalidInput)
}
