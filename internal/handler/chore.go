package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorekeeper/internal/auth"
	"github.com/dukerupert/chorekeeper/internal/model"
	"github.com/dukerupert/chorekeeper/internal/store"
)

type ChoreHandler struct {
	choreStore   *store.ChoreStore
	profileStore *store.UserProfileStore
	logger       *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, ps *store.UserProfileStore, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{choreStore: cs, profileStore: ps, logger: logger}
}

// choreRequest is the create and update payload. ID is only compared
// against the path on update; it is never written.
type choreRequest struct {
	ID             *int64 `json:"id"`
	Name           string `json:"name" validate:"required,max=100"`
	Difficulty     int    `json:"difficulty" validate:"min=1,max=5"`
	RecurrenceDays int    `json:"recurrence_days" validate:"gt=0"`
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.choreStore.List()
	if err != nil {
		respondError(w, h.logger, err, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	chore, err := h.choreStore.GetWithCompletions(id)
	if err != nil {
		respondError(w, h.logger, err, "failed to get chore")
		return
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "failed to create chore")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	chore, err := h.choreStore.Create(req.Name, req.Difficulty, req.RecurrenceDays)
	if err != nil {
		respondError(w, h.logger, err, "failed to create chore")
		return
	}

	h.logger.Info("chore created", "chore_id", chore.ID, "actor_profile_id", auth.ProfileID(r.Context()))
	w.Header().Set("Location", fmt.Sprintf("/api/chore/%d", chore.ID))
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req choreRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err, "failed to update chore")
		return
	}
	if req.ID != nil && *req.ID != id {
		writeError(w, http.StatusBadRequest, "id in body does not match path")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	chore, err := h.choreStore.Update(id, req.Name, req.Difficulty, req.RecurrenceDays)
	if err != nil {
		respondError(w, h.logger, err, "failed to update chore")
		return
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		respondError(w, h.logger, err, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	if err := h.choreStore.Delete(id); err != nil {
		respondError(w, h.logger, err, "failed to delete chore")
		return
	}
	h.logger.Info("chore deleted", "chore_id", id, "actor_profile_id", auth.ProfileID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// lookupPair resolves the chore path id and userId query parameter. It
// writes the response and returns false when either is invalid or absent.
func (h *ChoreHandler) lookupPair(w http.ResponseWriter, r *http.Request) (choreID, profileID int64, ok bool) {
	choreID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, 0, false
	}
	profileID, err = parseUserIDQuery(r)
	if err != nil {
		respondError(w, h.logger, err, "invalid userId")
		return 0, 0, false
	}

	chore, err := h.choreStore.GetByID(choreID)
	if err != nil {
		respondError(w, h.logger, err, "failed to get chore")
		return 0, 0, false
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return 0, 0, false
	}

	profile, err := h.profileStore.GetByID(profileID)
	if err != nil {
		respondError(w, h.logger, err, "failed to get user profile")
		return 0, 0, false
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "user profile not found")
		return 0, 0, false
	}
	return choreID, profileID, true
}

// Complete records a completion stamped with server time. Any body is
// ignored.
func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	choreID, profileID, ok := h.lookupPair(w, r)
	if !ok {
		return
	}

	completion, err := h.choreStore.CreateCompletion(choreID, profileID)
	if err != nil {
		respondError(w, h.logger, err, "failed to complete chore")
		return
	}
	h.logger.Info("chore completed",
		"chore_id", choreID,
		"user_profile_id", profileID,
		"completion_id", completion.ID,
		"actor_profile_id", auth.ProfileID(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Assign(w http.ResponseWriter, r *http.Request) {
	choreID, profileID, ok := h.lookupPair(w, r)
	if !ok {
		return
	}

	assignment, err := h.choreStore.CreateAssignment(choreID, profileID)
	if err != nil {
		respondError(w, h.logger, err, "failed to assign chore")
		return
	}
	h.logger.Info("chore assigned",
		"chore_id", choreID,
		"user_profile_id", profileID,
		"assignment_id", assignment.ID,
		"actor_profile_id", auth.ProfileID(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Unassign removes every assignment of the chore to the profile.
func (h *ChoreHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	choreID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	profileID, err := parseUserIDQuery(r)
	if err != nil {
		respondError(w, h.logger, err, "invalid userId")
		return
	}

	n, err := h.choreStore.DeleteAssignments(choreID, profileID)
	if err != nil {
		respondError(w, h.logger, err, "failed to unassign chore")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	h.logger.Info("chore unassigned",
		"chore_id", choreID,
		"user_profile_id", profileID,
		"removed", n,
		"actor_profile_id", auth.ProfileID(r.Context()),
	)
	w.WriteHeader(http.StatusNoContent)
}
