package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/interfaces"
	"github.com/mopc-lab/expropia/pkg/domain/model"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// handleError maps domain errors to HTTP status codes and writes the
// response.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrCaseNotFound),
		errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrDocumentNotFound),
		errors.Is(err, usecase.ErrMatrixNotFound),
		errors.Is(err, usecase.ErrAssessmentNotFound),
		errors.Is(err, interfaces.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrTransitionNotAllowed),
		errors.Is(err, usecase.ErrDependencyCycle),
		errors.Is(err, usecase.ErrDependencyNotMet),
		errors.Is(err, usecase.ErrIntegrityViolation):
		return http.StatusConflict

	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, usecase.ErrUnknownDocType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}

// int64Param parses a numeric chi URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid ID parameter", goerr.V("param", name), goerr.V("value", raw))
	}
	return id, nil
}
