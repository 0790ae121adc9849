package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/chengmingchun/editor/internal/capture"
	"github.com/chengmingchun/editor/internal/documents"
	"github.com/chengmingchun/editor/internal/state"
	"github.com/chengmingchun/editor/internal/storage"
	"github.com/chengmingchun/editor/internal/surface"
	"github.com/chengmingchun/editor/internal/templates"
)

// errorStatus maps a domain error to an HTTP status and error type.
func errorStatus(err error) (int, string) {
	var ioErr *documents.IOError
	switch {
	case errors.Is(err, state.ErrStateUnavailable):
		return http.StatusInternalServerError, "state_unavailable"
	case errors.Is(err, capture.ErrSurfaceNotOpen):
		return http.StatusConflict, "surface_not_open"
	case errors.Is(err, capture.ErrCaptureTimeout):
		return http.StatusGatewayTimeout, "capture_timeout"
	case errors.Is(err, capture.ErrCaptureDecode):
		return http.StatusBadGateway, "capture_decode_error"
	case errors.Is(err, capture.ErrScriptFailed):
		return http.StatusBadGateway, "script_error"
	case errors.Is(err, documents.ErrInvalidName),
		errors.Is(err, templates.ErrQueryTooShort),
		errors.Is(err, templates.ErrInvalidTemplate):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, templates.ErrDuplicate):
		return http.StatusConflict, "conflict"
	case errors.Is(err, templates.ErrUnsupportedSource):
		return http.StatusUnprocessableEntity, "unsupported_source"
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, surface.ErrUnknownHandle):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &ioErr):
		return http.StatusInternalServerError, "io_error"
	}
	return http.StatusInternalServerError, "api_error"
}

func writeError(w http.ResponseWriter, err error) {
	code, typ := errorStatus(err)
	httpError(w, code, typ, "%v", err)
}
