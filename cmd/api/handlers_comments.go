package main

import (
	"net/http"

	"movielib/proj/internal/services/comments"
)

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	items, err := app.services.Comments.List(r.Context(), principalFromCtx(r), movieID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comments": items}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req comments.CreateCommentDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	comment, err := app.services.Comments.Create(r.Context(), principalFromCtx(r), movieID, req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "Comment added")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req comments.UpdateCommentDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	comment, err := app.services.Comments.Update(r.Context(), principalFromCtx(r), id, req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "Comment updated")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Comments.Delete(r.Context(), principalFromCtx(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Comment deleted")
}
