package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dailyDoodleAPI/middleware"
	"dailyDoodleAPI/services"
)

type SocialHandler struct {
	socialService *services.SocialService
}

func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.socialService.Follow(ctx, ident, req.UserID); err != nil {
		respondWithServiceError(w, err, "Failed to follow user")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Followed successfully"})
}

func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	targetID := mux.Vars(r)["id"]
	if err := h.socialService.Unfollow(ctx, ident, targetID); err != nil {
		respondWithServiceError(w, err, "Failed to unfollow user")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed successfully"})
}

func (h *SocialHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	doodleID := mux.Vars(r)["id"]
	if err := h.socialService.Like(ctx, ident, doodleID); err != nil {
		respondWithServiceError(w, err, "Failed to like doodle")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Liked successfully"})
}

func (h *SocialHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	doodleID := mux.Vars(r)["id"]
	if err := h.socialService.Unlike(ctx, ident, doodleID); err != nil {
		respondWithServiceError(w, err, "Failed to unlike doodle")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Unliked successfully"})
}

func (h *SocialHandler) Share(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	doodleID := mux.Vars(r)["id"]
	if err := h.socialService.Share(ctx, ident, doodleID); err != nil {
		respondWithServiceError(w, err, "Failed to record share")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Share recorded"})
}

func (h *SocialHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		PromptID string `json:"promptId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PromptID == "" {
		respondWithError(w, http.StatusBadRequest, "promptId is required")
		return
	}

	if err := h.socialService.Favorite(ctx, ident, req.PromptID); err != nil {
		respondWithServiceError(w, err, "Failed to bookmark prompt")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Prompt bookmarked"})
}

func (h *SocialHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	promptID := mux.Vars(r)["id"]
	if err := h.socialService.Unfavorite(ctx, ident, promptID); err != nil {
		respondWithServiceError(w, err, "Failed to remove bookmark")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Bookmark removed"})
}

func (h *SocialHandler) SubmitPromptIdea(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		Idea string `json:"idea"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Idea == "" {
		respondWithError(w, http.StatusBadRequest, "idea is required")
		return
	}

	if err := h.socialService.SubmitPromptIdea(ctx, ident, req.Idea); err != nil {
		respondWithServiceError(w, err, "Failed to submit prompt idea")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Prompt idea submitted"})
}
