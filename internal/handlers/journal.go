package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/store"
	"github.com/mindwell/apiserver/types"
)

// JournalHandler provides CRUD over daily journal entries. Ownership is
// the client-supplied user_id; these routes carry no bearer token in
// the deployed API contract.
type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// JournalRouter registers journal routes on the given router.
func JournalRouter(r chi.Router, journalService *services.JournalService) {
	handler := NewJournalHandler(journalService)

	r.Post("/", handler.Create)
	r.Get("/", handler.List)
	r.Put("/{journalID}", handler.Update)
	r.Delete("/{journalID}", handler.Delete)
}

type JournalUpsertRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
	Date    string `json:"date"`
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req JournalUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.UserID == "" || req.Title == "" || req.Content == "" || req.Mood == "" {
		writeFlagError(w, http.StatusBadRequest, "Missing user_id, title, content, or mood in request body.", nil)
		return
	}

	date, err := parseJournalDate(req.Date)
	if err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.", nil)
		return
	}

	entry, err := h.journalService.Create(r.Context(), types.JournalEntry{
		UserID:  req.UserID,
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Date:    date,
	})
	if err != nil {
		writeFlagError(w, http.StatusInternalServerError, "Failed to create daily journal entry.", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Daily journal entry created successfully!",
		"data": map[string]any{
			"id":      entry.ID,
			"user_id": entry.UserID,
			"title":   entry.Title,
			"content": entry.Content,
			"mood":    entry.Mood,
			"date":    entry.Date,
		},
		"timestamp": nowISO(),
	})
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeFlagError(w, http.StatusBadRequest, "Missing user_id in query parameters.", nil)
		return
	}

	entries, err := h.journalService.ListByUser(r.Context(), userID)
	if err != nil {
		writeFlagError(w, http.StatusInternalServerError, "Failed to fetch journal entries", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Journal entries fetched for user_id " + userID,
		"data":      entries,
		"timestamp": nowISO(),
	})
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "journalID"))
	if err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid journal entry ID", nil)
		return
	}

	var req JournalUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.Title == "" || req.Content == "" || req.Mood == "" {
		writeFlagError(w, http.StatusBadRequest, "Missing title, content, or mood in request body.", nil)
		return
	}

	date, err := parseJournalDate(req.Date)
	if err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD.", nil)
		return
	}

	entry, err := h.journalService.Update(r.Context(), types.JournalEntry{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Date:    date,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeFlagError(w, http.StatusNotFound, "Journal entry not found.", nil)
			return
		}
		writeFlagError(w, http.StatusInternalServerError, "Failed to update journal entry.", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Journal entry updated successfully!",
		"data": map[string]any{
			"id":      entry.ID,
			"title":   entry.Title,
			"content": entry.Content,
			"mood":    entry.Mood,
			"date":    entry.Date,
		},
		"timestamp": nowISO(),
	})
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "journalID"))
	if err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid journal entry ID", nil)
		return
	}

	if err := h.journalService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeFlagError(w, http.StatusNotFound, "Journal entry not found.", nil)
			return
		}
		writeFlagError(w, http.StatusInternalServerError, "Failed to delete journal entry.", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Journal entry deleted successfully!",
		"timestamp": nowISO(),
	})
}

func parseJournalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
