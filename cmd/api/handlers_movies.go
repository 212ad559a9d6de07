package main

import (
	"net/http"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/services/movies"
)

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	var query movies.ListMoviesDTO
	fieldErrs, err := app.decoder.Decode(&query, r.URL.Query())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	if fieldErrs != nil {
		app.serviceError(w, r, apperr.NewValidationError(fieldErrs))
		return
	}
	items, metadata, err := app.services.Movies.List(r.Context(), principalFromCtx(r), query)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movies": items, "metadata": metadata}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	movie, err := app.services.Movies.Get(r.Context(), principalFromCtx(r), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req movies.CreateMovieDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	movie, err := app.services.Movies.Create(r.Context(), principalFromCtx(r), req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie created")
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req movies.UpdateMovieDTO
	if !app.readJSONOrBadRequest(w, r, &req) {
		return
	}
	movie, err := app.services.Movies.Update(r.Context(), principalFromCtx(r), id, req)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie updated")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Movies.Delete(r.Context(), principalFromCtx(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Movie deleted")
}
