package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/chorekeeper/internal/auth"
	"github.com/dukerupert/chorekeeper/internal/model"
	"github.com/dukerupert/chorekeeper/internal/store"
)

type AuthHandler struct {
	identityStore *store.IdentityStore
	profileStore  *store.UserProfileStore
	tokens        *auth.Tokens
	secureCookie  bool
	logger        *slog.Logger
}

func NewAuthHandler(
	is *store.IdentityStore,
	ps *store.UserProfileStore,
	tokens *auth.Tokens,
	secureCookie bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		identityStore: is,
		profileStore:  ps,
		tokens:        tokens,
		secureCookie:  secureCookie,
		logger:        logger,
	}
}

const maxPasswordBytes = 72

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	UserName  string `json:"user_name" validate:"required,alphanum,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Address   string `json:"address" validate:"required,max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Profile   *model.UserProfile `json:"profile,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "failed to register")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Address = strings.TrimSpace(req.Address)
	for _, f := range []struct{ name, value string }{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"address", req.Address},
	} {
		if f.value == "" {
			writeError(w, http.StatusBadRequest, f.name+" is required")
			return
		}
	}
	// bcrypt only hashes the first 72 bytes.
	if len(req.Password) > maxPasswordBytes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
		return
	}

	account, profile, err := h.identityStore.Register(store.Registration{
		UserName:  req.UserName,
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
	})
	if err != nil {
		respondError(w, h.logger, err, "failed to register")
		return
	}

	token, expires, err := h.tokens.Issue(account.ID)
	if err != nil {
		respondError(w, h.logger, err, "failed to issue token")
		return
	}

	h.logger.Info("user registered", "identity_id", account.ID, "user_profile_id", profile.ID)
	h.setSessionCookie(w, token, expires)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: expires, Profile: profile})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "failed to log in")
		return
	}

	account, err := h.identityStore.VerifyCredentials(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		respondError(w, h.logger, err, "failed to log in")
		return
	}
	if account == nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, expires, err := h.tokens.Issue(account.ID)
	if err != nil {
		respondError(w, h.logger, err, "failed to issue token")
		return
	}

	profile, err := h.profileStore.GetByIdentityID(account.ID)
	if err != nil {
		respondError(w, h.logger, err, "failed to load profile")
		return
	}

	h.setSessionCookie(w, token, expires)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires, Profile: profile})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's profile with email, username and roles.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileStore.GetWithRolesByIdentity(auth.IdentityID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err, "failed to load profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "user profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
