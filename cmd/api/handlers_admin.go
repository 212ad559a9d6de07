package main

import (
	"net/http"

	"movielib/proj/internal/services/users"
)

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	items, err := app.services.Users.List(r.Context(), principalFromCtx(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"users": items}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := app.services.Users.Get(r.Context(), principalFromCtx(r), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req users.UpdateRoleDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	user, err := app.services.Users.UpdateRole(r.Context(), principalFromCtx(r), id, req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "Role updated")
}
