package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorekeeper/internal/auth"
	"github.com/dukerupert/chorekeeper/internal/config"
	"github.com/dukerupert/chorekeeper/internal/handler"
	"github.com/dukerupert/chorekeeper/internal/middleware"
	"github.com/dukerupert/chorekeeper/internal/store"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	db            *sql.DB
	choreH        *handler.ChoreHandler
	userProfileH  *handler.UserProfileHandler
	authH         *handler.AuthHandler
	identityStore *store.IdentityStore
	profileStore  *store.UserProfileStore
	tokens        *auth.Tokens
	rateLimiter   *middleware.RateLimiter
	strictAccess  bool
	trustProxy    bool
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	choreStore := store.NewChoreStore(db)
	profileStore := store.NewUserProfileStore(db, choreStore)
	identityStore := store.NewIdentityStore(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	return &Server{
		db:            db,
		choreH:        handler.NewChoreHandler(choreStore, profileStore, logger.With("component", "chore")),
		userProfileH:  handler.NewUserProfileHandler(profileStore, identityStore, logger.With("component", "user_profile")),
		authH:         handler.NewAuthHandler(identityStore, profileStore, tokens, !cfg.IsDevelopment(), logger.With("component", "auth")),
		identityStore: identityStore,
		profileStore:  profileStore,
		tokens:        tokens,
		rateLimiter:   middleware.NewRateLimiter(),
		strictAccess:  cfg.StrictAccess,
		trustProxy:    cfg.TrustProxy,
		logger:        logger,
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.identityStore, s.profileStore, s.logger.With("component", "auth"))
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"), s.trustProxy)(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.ClientIP(r, s.trustProxy)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, authRateLimit, authRateWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

// restricted gates routes that only admins may use under strict access.
func (s *Server) restricted(h http.HandlerFunc) http.Handler {
	if s.strictAccess {
		return admin(h)
	}
	return h
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// User profile routes
	mux.Handle("GET /api/userprofile", admin(s.userProfileH.List))
	mux.Handle("GET /api/userprofile/withroles", s.restricted(s.userProfileH.ListWithRoles))
	mux.Handle("POST /api/userprofile/promote/{id}", admin(s.userProfileH.Promote))
	mux.Handle("POST /api/userprofile/demote/{id}", admin(s.userProfileH.Demote))
	mux.HandleFunc("GET /api/userprofile/{id}", s.userProfileH.Get)

	// Chore routes
	mux.HandleFunc("GET /api/chore", s.choreH.List)
	mux.HandleFunc("GET /api/chore/{id}", s.choreH.Get)
	mux.Handle("POST /api/chore", admin(s.choreH.Create))
	mux.Handle("PUT /api/chore/{id}", admin(s.choreH.Update))
	mux.Handle("DELETE /api/chore/{id}", admin(s.choreH.Delete))
	mux.HandleFunc("POST /api/chore/{id}/complete", s.choreH.Complete)
	mux.Handle("POST /api/chore/{id}/assign", s.restricted(s.choreH.Assign))
	mux.HandleFunc("POST /api/chore/{id}/unassign", s.choreH.Unassign)
}
