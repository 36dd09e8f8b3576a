package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kasku/internal/auth"
	"kasku/internal/core"
	applog "kasku/internal/log"
	"kasku/internal/services"
	"kasku/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= 500 {
		sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
		sl.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, r.Method,
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// validationErrs are the domain sentinels that mean the payload was
// well-formed JSON but semantically wrong.
var validationErrs = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrEmptyName,
	core.ErrEmptyCategory,
	core.ErrEmptyAccount,
	core.ErrInvalidKind,
	core.ErrSameAccount,
	core.ErrInvalidTarget,
	core.ErrNegativeAmount,
	core.ErrEmptyCounterparty,
	auth.ErrWeakPassword,
	auth.ErrEmptyUsername,
}

func errorStatus(err error) int {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAccountInUse),
		errors.Is(err, storage.ErrCategoryInUse),
		errors.Is(err, storage.ErrDuplicateName),
		errors.Is(err, storage.ErrNotTransfer),
		errors.Is(err, services.ErrTransferLeg),
		errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, services.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// decodeJSON parses the request body into dst, with a size cap so a
// client cannot stream an unbounded body.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
