package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorekeeper/internal/auth"
	"github.com/dukerupert/chorekeeper/internal/model"
)

// TokenParser resolves a bearer token to an identity account id.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// ProfileLookup finds the profile that belongs to an identity account.
type ProfileLookup interface {
	GetByIdentityID(identityID int64) (*model.UserProfile, error)
}

// RequireAuth resolves the caller from a bearer token (or the session
// cookie), loads the account and its roles, and populates AuthContext.
// Requests without a valid identity get 401.
func RequireAuth(tokens TokenParser, identity auth.Identity, profiles ProfileLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			identityID, err := tokens.Parse(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			account, err := identity.GetAccount(identityID)
			if err != nil {
				logger.Error("load identity", "identity_id", identityID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to load identity")
				return
			}
			if account == nil {
				writeError(w, http.StatusUnauthorized, "user not found")
				return
			}

			roles, err := identity.ListRolesFor(identityID)
			if err != nil {
				logger.Error("load roles", "identity_id", identityID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to load roles")
				return
			}

			ac := auth.AuthContext{
				IdentityID: account.ID,
				UserName:   account.UserName,
				Roles:      roles,
			}

			profile, err := profiles.GetByIdentityID(identityID)
			if err != nil {
				logger.Error("load profile", "identity_id", identityID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to load profile")
				return
			}
			if profile != nil {
				ac.ProfileID = profile.ID
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user has the Admin role. It
// only reads the request context.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
