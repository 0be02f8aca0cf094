package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chorekeeper/internal/apperror"
)

func TestParseUserIDQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    int64
		wantErr bool
	}{
		{"?userId=7", 7, false},
		{"", 0, true},
		{"?userId=", 0, true},
		{"?userId=seven", 0, true},
		{"?userid=7", 0, true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("POST", "/api/chore/1/complete"+tc.query, nil)
		got, err := parseUserIDQuery(r)
		if (err != nil) != tc.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tc.query, err, tc.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, apperror.ErrBadRequest) {
			t.Errorf("%q: err = %v, want ErrBadRequest", tc.query, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{apperror.NotFound("chore not found"), http.StatusNotFound, "chore not found"},
		{apperror.New(apperror.ErrConflict, "email already registered"), http.StatusConflict, "email already registered"},
		{errors.New("disk I/O error"), http.StatusInternalServerError, "failed to do thing"},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		respondError(rec, logger, tc.err, "failed to do thing")

		if rec.Code != tc.wantStatus {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.wantStatus)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != tc.wantMsg {
			t.Errorf("%v: error = %q, want %q", tc.err, body["error"], tc.wantMsg)
		}
	}
}
