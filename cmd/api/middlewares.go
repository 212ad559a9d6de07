package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/lib/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

func (app *Application) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				w.Header().Set("Connection", "close")
				app.Http.ServerError(w, r, err, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

const clientIdleTTL = 5 * time.Minute

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client ip.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*rateClient
	rps     rate.Limit
	burst   int
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{clients: make(map[string]*rateClient), rps: rate.Limit(rps), burst: burst}
}

func (l *clientLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiters) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > clientIdleTTL {
			delete(l.clients, ip)
		}
	}
}

// janitor evicts idle clients every interval until done is closed.
func (l *clientLimiters) janitor(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

func (app *Application) RateLimiter(next http.Handler) http.Handler {
	const op = "middlewares.RateLimiter"
	log := app.log.With("op", op)
	if !app.cfg.Limiter.Enabled {
		return next
	}
	limiters := newClientLimiters(app.cfg.Limiter.Rps, app.cfg.Limiter.Burst)
	go limiters.janitor(app.done, clientIdleTTL)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !limiters.allow(ip, time.Now()) {
			log.Warn("rate limit exceeded", "ip", ip)
			app.Http.TooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics records every request under its route pattern rather than the raw
// path, so ids do not blow up label cardinality.
func (app *Application) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHttpRequest(r.Method, route, status, time.Since(start))
	})
}

type CtxKey string

const CtxKeyPrincipal CtxKey = "principal"

func principalFromCtx(r *http.Request) models.Principal {
	p, ok := r.Context().Value(CtxKeyPrincipal).(models.Principal)
	if !ok {
		return models.AnonymousPrincipal
	}
	return p
}

// Authenticate resolves the session cookie into the request principal. A
// missing or invalid session leaves the request anonymous.
func (app *Application) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := models.AnonymousPrincipal
		if cookie, err := r.Cookie(app.cfg.Session.CookieName); err == nil {
			principal = app.services.Auth.ResolvePrincipal(r.Context(), cookie.Value)
		}
		if !principal.IsAnonymous() {
			app.Http.setupLogPerReq(r).Debug("authenticated", "user_id", principal.UserID, "role", principal.Role)
		}
		r = r.WithContext(context.WithValue(r.Context(), CtxKeyPrincipal, principal))
		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthenticatedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principalFromCtx(r).IsAnonymous() {
			metrics.RecordAccessDenied("unauthenticated")
			app.Http.Unauthorized(w, r, "You must be authenticated to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
