package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/chorekeeper/internal/apperror"
	"github.com/dukerupert/chorekeeper/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps err to a status. Internal errors are logged and their
// detail is replaced with fallback.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	status := apperror.MapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, "error", err)
		writeError(w, status, fallback)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeError(w, status, appErr.Error())
		return
	}
	writeError(w, status, err.Error())
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// parseUserIDQuery reads the required userId query parameter.
func parseUserIDQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return 0, apperror.New(apperror.ErrBadRequest, "userId is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.ErrBadRequest, "userId must be an integer")
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.New(apperror.ErrBadRequest, "invalid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		return apperror.New(apperror.ErrInvalidInput, err.Error())
	}
	return nil
}
