package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/uploads"
	"github.com/mindwell/apiserver/types"
)

const (
	maxImageBytes = 10 << 20 // 10 MiB

	// maxFormOverhead is headroom on top of the image limit for the
	// multipart boundaries and the user_id field.
	maxFormOverhead = 1 << 20
)

// MoodHandler accepts mood images, runs the external classifier, and
// records the result.
type MoodHandler struct {
	moodService *services.MoodService
	invoker     Invoker
	uploads     *uploads.Store
	production  bool
}

func NewMoodHandler(moodService *services.MoodService, invoker Invoker, uploadStore *uploads.Store, production bool) *MoodHandler {
	return &MoodHandler{
		moodService: moodService,
		invoker:     invoker,
		uploads:     uploadStore,
		production:  production,
	}
}

// MoodRouter registers the mood prediction and history routes on the
// given router.
func MoodRouter(r chi.Router, moodService *services.MoodService, invoker Invoker, uploadStore *uploads.Store, production bool) {
	handler := NewMoodHandler(moodService, invoker, uploadStore, production)

	r.Post("/mood", handler.Predict)
	r.Get("/get-moods", handler.ListMoods)
}

// Predict runs the image classifier on the uploaded file and persists a
// mood record on success. The uploaded file is deleted on every path
// once it has been saved; an inference success whose save fails still
// returns the prediction so the client keeps the computed result.
func (h *MoodHandler) Predict(w http.ResponseWriter, r *http.Request) {
	// Oversized uploads are cut off while the body is still being
	// read, not after it has been spooled to disk.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+maxFormOverhead)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeFlagError(w, http.StatusBadRequest, "Uploaded image exceeds the 10MB limit", nil)
			return
		}
		writeFlagError(w, http.StatusBadRequest, "No image uploaded", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeFlagError(w, http.StatusBadRequest, "No image uploaded", nil)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeFlagError(w, http.StatusBadRequest, "Only image files are allowed!", nil)
		return
	}
	if header.Size > maxImageBytes {
		writeFlagError(w, http.StatusBadRequest, "Uploaded image exceeds the 10MB limit", nil)
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		writeFlagError(w, http.StatusBadRequest, "User ID is required in the request body.", nil)
		return
	}

	imagePath, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		writeFlagError(w, http.StatusInternalServerError, "Failed to store uploaded image", nil)
		return
	}
	defer h.uploads.Remove(imagePath)

	prediction, err := h.invoker.RunMoodImage(r.Context(), imagePath)
	if err != nil {
		writeInferenceError(w, err, h.production)
		return
	}

	record := types.MoodRecord{
		UserID:     userID,
		Mood:       prediction.Mood,
		Confidence: prediction.Confidence,
	}
	if _, err := h.moodService.Record(r.Context(), record); err != nil {
		// The prediction itself succeeded; only the save failed. The
		// client must still receive the computed result.
		extra := map[string]any{
			"prediction_result": prediction,
		}
		if !h.production {
			extra["database_error"] = err.Error()
		}
		writeFlagError(w, http.StatusInternalServerError, "Prediction successful, but failed to save mood record.", extra)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"prediction_result": prediction,
		"message":           "Mood prediction processed and recorded successfully!",
		"timestamp":         nowISO(),
	})
}

// ListMoods returns the mood history for the user_id query parameter,
// newest first.
func (h *MoodHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeFlagError(w, http.StatusBadRequest, "Missing user_id in query parameters.", nil)
		return
	}

	records, err := h.moodService.ListByUser(r.Context(), userID)
	if err != nil {
		writeFlagError(w, http.StatusInternalServerError, "Failed to fetch mood records", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Mood records fetched for user_id %s", userID),
		"data":      records,
		"timestamp": nowISO(),
	})
}
