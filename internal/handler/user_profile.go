package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorekeeper/internal/auth"
	"github.com/dukerupert/chorekeeper/internal/model"
	"github.com/dukerupert/chorekeeper/internal/store"
)

type UserProfileHandler struct {
	profileStore *store.UserProfileStore
	identity     auth.Identity
	logger       *slog.Logger
}

func NewUserProfileHandler(ps *store.UserProfileStore, identity auth.Identity, logger *slog.Logger) *UserProfileHandler {
	return &UserProfileHandler{profileStore: ps, identity: identity, logger: logger}
}

func (h *UserProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileStore.List()
	if err != nil {
		respondError(w, h.logger, err, "failed to list user profiles")
		return
	}
	if profiles == nil {
		profiles = []model.UserProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *UserProfileHandler) ListWithRoles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileStore.ListWithRoles()
	if err != nil {
		respondError(w, h.logger, err, "failed to list user profiles")
		return
	}
	if profiles == nil {
		profiles = []model.ProfileWithRoles{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Promote grants the Admin role to an identity account. Promoting an
// existing admin succeeds without change.
func (h *UserProfileHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.identity.AddRole(id, model.RoleAdmin); err != nil {
		respondError(w, h.logger, err, "failed to promote user")
		return
	}
	h.logger.Info("user promoted", "identity_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserProfileHandler) Demote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.identity.RemoveRole(id, model.RoleAdmin); err != nil {
		respondError(w, h.logger, err, "failed to demote user")
		return
	}
	h.logger.Info("user demoted", "identity_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	profile, err := h.profileStore.GetWithChores(id)
	if err != nil {
		respondError(w, h.logger, err, "failed to get user profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "user profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
