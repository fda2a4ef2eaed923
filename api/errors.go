package api

import (
	"errors"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/go-chi/render"
	"net/http"
)

type ErrResponse struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	Kind           string `json:"kind,omitempty"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return newErrResponse(http.StatusBadRequest, err)
}

func ErrConflict(err error) render.Renderer {
	return newErrResponse(http.StatusConflict, err)
}

func ErrInternalServerError(err error) render.Renderer {
	return newErrResponse(http.StatusInternalServerError, err)
}

// ErrQuery maps an error raised while running a query or reading the catalog to a response.
// Storage failures are the server's fault, unknown names are 404 and everything else is a bad query.
func ErrQuery(err error) render.Renderer {
	var storageErr storage.Error
	switch {
	case errors.As(err, &storageErr):
		return ErrInternalServerError(err)
	case errors.Is(err, metastore.Error{ErrorCode: metastore.NoSuchTable}),
		errors.Is(err, metastore.Error{ErrorCode: metastore.NoSuchColumn}):
		return newErrResponse(http.StatusNotFound, err)
	default:
		return ErrInvalidRequest(err)
	}
}

func newErrResponse(status int, err error) *ErrResponse {
	response := &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		ErrorText:      err.Error(),
	}
	var kinded interface{ Kind() string }
	if errors.As(err, &kinded) {
		response.Kind = kinded.Kind()
	}
	return response
}
