package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"movielib/proj/internal/domain/apperr"
	"movielib/proj/internal/lib/metrics"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		app.Http.BadRequest(w, r, "invalid ID")
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, "id must be greater than zero")
		return 0, false
	}
	return id, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readJSONOrBadRequest reports false after answering 400 itself.
func (app *Application) readJSONOrBadRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	return true
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}

// serviceError writes the response for an error returned by a service.
func (app *Application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *apperr.ValidationError
	switch {
	case errors.As(err, &validationErr):
		app.Http.UnprocessableEntity(w, r, validationErr.Fields)
	case errors.Is(err, apperr.ErrUnauthenticated):
		metrics.RecordAccessDenied("unauthenticated")
		app.Http.Unauthorized(w, r, apperr.Message(err))
	case errors.Is(err, apperr.ErrForbidden):
		metrics.RecordAccessDenied("forbidden")
		app.Http.Forbidden(w, r, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		app.Http.NotFound(w, r, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		app.Http.Conflict(w, r, apperr.Message(err))
	case errors.Is(err, apperr.ErrStoreUnavailable):
		app.Http.ServiceUnavailable(w, r, err)
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
