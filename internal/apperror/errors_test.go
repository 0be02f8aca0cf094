package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("demote: %w", ErrNotFound), http.StatusNotFound},
		{"app error", NotFound("chore not found"), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"bad request", ErrBadRequest, http.StatusBadRequest},
		{"invalid input", New(ErrInvalidInput, "name is required"), http.StatusBadRequest},
		{"conflict", ErrConflict, http.StatusConflict},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrConflict, "email already registered")
	if err.Error() != "email already registered" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrConflict) {
		t.Error("expected errors.Is to match ErrConflict")
	}

	bare := &AppError{Kind: ErrForbidden}
	if bare.Error() != ErrForbidden.Error() {
		t.Errorf("Error() = %q, want %q", bare.Error(), ErrForbidden.Error())
	}
}
