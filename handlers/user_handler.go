package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/user"
	"dailyDoodleAPI/middleware"
	"dailyDoodleAPI/services"
)

type UserHandler struct {
	userService   *services.UserService
	syncService   *services.SyncService
	badgeService  *services.BadgeService
	statsService  *services.StatsService
	streakService *services.StreakService
}

func NewUserHandler(userService *services.UserService, syncService *services.SyncService, badgeService *services.BadgeService, statsService *services.StatsService, streakService *services.StreakService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		syncService:   syncService,
		badgeService:  badgeService,
		statsService:  statsService,
		streakService: streakService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userService.GetByClerkID(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(ctx, ident.UserID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// StartSession runs the full cache reconciliation for the authenticated
// user. Called once per app launch; also the recovery path after the
// remote store comes back from an outage.
func (h *UserHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h.syncService.Load(ctx, ident)

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Session started"})
}

// EndSession wipes the device-local cache on logout.
func (h *UserHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := middleware.GetIdentity(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.syncService.Reset(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear session data")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

func (h *UserHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	badges, err := h.badgeService.ListForUser(ident.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, badges)
}

func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.statsService.Get(ident.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streak, err := h.streakService.Get(ident.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, streak)
}

// RecordDailyView marks today's prompt as viewed, advancing the daily
// streak. Safe to call on every prompt open.
func (h *UserHandler) RecordDailyView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streak, err := h.streakService.RecordDailyView(ctx, ident)
	if err != nil {
		respondWithServiceError(w, err, "Failed to record daily view")
		return
	}

	respondWithJSON(w, http.StatusOK, streak)
}

func (h *UserHandler) UseFreeze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streak, err := h.streakService.UseFreeze(ctx, ident)
	if err != nil {
		respondWithServiceError(w, err, "Failed to use streak freeze")
		return
	}

	respondWithJSON(w, http.StatusOK, streak)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError translates the service error taxonomy to HTTP
// statuses, falling back to a 500 with a generic message.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case apperr.Is(err, apperr.KindValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperr.Is(err, apperr.KindAuthorization):
		respondWithError(w, http.StatusForbidden, err.Error())
	case apperr.Is(err, apperr.KindConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case apperr.Is(err, apperr.KindRemoteUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
