package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dailyDoodleAPI/middleware"
	"dailyDoodleAPI/services"
)

// uploads are bounded well below this; the form limit just stops abuse
const maxUploadBytes = 10 << 20

type DoodleHandler struct {
	uploadService *services.UploadService
	socialService *services.SocialService
}

func NewDoodleHandler(uploadService *services.UploadService, socialService *services.SocialService) *DoodleHandler {
	return &DoodleHandler{
		uploadService: uploadService,
		socialService: socialService,
	}
}

// Upload accepts a multipart form with the drawing image plus its prompt
// metadata and runs the full submission pipeline.
func (h *DoodleHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	promptID := r.FormValue("promptId")
	if promptID == "" {
		respondWithError(w, http.StatusBadRequest, "promptId is required")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	req := &services.UploadRequest{
		PromptID: promptID,
		Caption:  r.FormValue("caption"),
		IsPublic: r.FormValue("isPublic") != "false",
		Image:    data,
	}

	created, err := h.uploadService.Upload(ctx, ident, req)
	if err != nil {
		log.Printf("Upload Handler: Service error for user %s: %v", ident.UserID, err)
		respondWithServiceError(w, err, "Failed to upload doodle")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *DoodleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	doodleID := mux.Vars(r)["id"]
	if doodleID == "" {
		respondWithError(w, http.StatusBadRequest, "doodle id is required")
		return
	}

	if err := h.socialService.DeleteDoodle(ctx, ident, doodleID); err != nil {
		respondWithServiceError(w, err, "Failed to delete doodle")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Doodle deleted successfully"})
}

func (h *DoodleHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	feed, err := h.socialService.Feed(ident.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, feed)
}

func (h *DoodleHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ident, ok := middleware.GetIdentity(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	doodleID := mux.Vars(r)["id"]

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Reason == "" {
		respondWithError(w, http.StatusBadRequest, "reason is required")
		return
	}

	if err := h.socialService.Report(ctx, ident, doodleID, req.Reason); err != nil {
		respondWithServiceError(w, err, "Failed to report doodle")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Report submitted"})
}
