package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Repositories and services decide the
// kind at the point of failure; handlers never re-derive it from message text.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDuplicateDocument = errors.New("ya existe un cliente con este documento")
	ErrValidation        = errors.New("datos inválidos")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// Responder maps domain errors to envelope responses. ExposeErrors controls
// whether raw error text appears in 500 responses; it is off in production.
type Responder struct {
	ExposeErrors bool
}

// Error writes the envelope matching the error kind.
func (re Responder) Error(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateDocument):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrValidation):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		Fail(w, http.StatusForbidden, err.Error())
	default:
		re.Internal(w, err, fallback)
	}
}

// BusinessError writes a 400 for errors that reject the request rather than
// signal a server fault (update on a missing row, duplicate document).
func (re Responder) BusinessError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateDocument) {
		Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	re.Error(w, err, fallback)
}

// Internal writes a 500 envelope, exposing the raw error only when allowed.
func (re Responder) Internal(w http.ResponseWriter, err error, fallback string) {
	env := Envelope{Success: false, Message: fallback}
	if re.ExposeErrors && err != nil {
		env.Error = err.Error()
	}
	JSON(w, http.StatusInternalServerError, env)
}
