package main

import (
	"net/http"
	"time"

	"movielib/proj/internal/services/auth"
)

func (app *Application) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.cfg.Session.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   app.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *Application) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *Application) register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	session, err := app.services.Auth.Register(r.Context(), req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.setSessionCookie(w, session)
	app.Http.Created(w, r, envelop{"user": session.User}, "Registration successful")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	session, err := app.services.Auth.Login(r.Context(), req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.setSessionCookie(w, session)
	app.Http.Ok(w, r, envelop{"user": session.User}, "Login successful")
}

func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(app.cfg.Session.CookieName); err == nil {
		if err := app.services.Auth.Logout(r.Context(), cookie.Value); err != nil {
			app.serviceError(w, r, err)
			return
		}
	}
	app.clearSessionCookie(w)
	app.Http.Ok(w, r, nil, "Logout successful")
}

func (app *Application) authStatus(w http.ResponseWriter, r *http.Request) {
	p := principalFromCtx(r)
	if p.IsAnonymous() {
		app.Http.Ok(w, r, envelop{"authenticated": false}, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"authenticated": true,
		"user": envelop{
			"id":       p.UserID,
			"username": p.Username,
			"role":     p.Role,
		},
	}, "")
}
