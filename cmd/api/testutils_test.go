package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movielib/proj/internal/api/tasks"
	"movielib/proj/internal/config"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/mails"
	"movielib/proj/internal/services"
	"movielib/proj/internal/services/auth"
	"movielib/proj/internal/storage/memory"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	*Application
	store   *memory.Models
	handler http.Handler
}

func NewTestApplication(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Env = config.EnvLocal
	cfg.BcryptCost = bcrypt.MinCost
	cfg.Session = config.Session{
		Secret:     "0123456789abcdef0123456789abcdef",
		TTL:        time.Hour,
		CookieName: "sid",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	bgTasks := tasks.New(log, 1, 10)
	bgTasks.Run()
	t.Cleanup(func() { bgTasks.Shutdown(context.Background()) })

	svcs := services.New(log, cfg, services.Storage{
		Movies:   store.Movie,
		Comments: store.Comment,
		Users:    store.User,
		Sessions: store.Session,
	}, &mails.NopMailer{Log: log}, bgTasks, validator.New())
	app := NewApplication(cfg, log, svcs, bgTasks)
	t.Cleanup(app.Close)
	return &testApp{Application: app, store: store, handler: app.routes()}
}

// login creates a user with the given role and returns its session cookie.
func (ta *testApp) login(t *testing.T, email string, role models.Role) (*models.User, *http.Cookie) {
	t.Helper()
	ctx := context.Background()
	session, err := ta.services.Auth.Register(ctx, auth.RegisterDTO{
		Username:        email[:3],
		Email:           email,
		Password:        "password",
		ConfirmPassword: "password",
	})
	require.NoError(t, err)
	if role == models.RoleAdmin {
		_, err := ta.store.User.UpdateRole(ctx, session.User.ID, role)
		require.NoError(t, err)
	}
	return session.User, &http.Cookie{Name: ta.cfg.Session.CookieName, Value: session.Token}
}

func (ta *testApp) do(t *testing.T, method, target string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}
