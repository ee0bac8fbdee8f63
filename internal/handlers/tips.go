package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/store"
	"github.com/mindwell/apiserver/types"
)

const defaultTipLimit = 8

// TipHandler serves the read-only daily-tip endpoints.
type TipHandler struct {
	tipService *services.TipService
}

func NewTipHandler(tipService *services.TipService) *TipHandler {
	return &TipHandler{tipService: tipService}
}

// TipRouter registers daily-tip routes on the given router. The
// categories route is registered before the id route so "categories"
// never parses as an id.
func TipRouter(r chi.Router, tipService *services.TipService) {
	handler := NewTipHandler(tipService)

	r.Get("/", handler.ListTips)
	r.Get("/categories", handler.Categories)
	r.Get("/{tipID}", handler.GetTip)
}

// ListTips returns tips paginated by page/limit, or a random sample of
// the filtered set when random=true. A zero-row result is a 200 with
// empty data and totalPages 0, not an error.
func (h *TipHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultTipLimit
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeStatusError(w, http.StatusBadRequest, "Invalid limit parameter. Must be a positive number.")
			return
		}
		limit = parsed
	}

	page := 1
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeStatusError(w, http.StatusBadRequest, "Invalid page parameter. Must be a positive number.")
			return
		}
		page = parsed
	}

	category := strings.TrimSpace(query.Get("category"))
	random := query.Get("random") == "true"
	offset := (page - 1) * limit

	total, err := h.tipService.Count(r.Context(), category)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Failed to retrieve total daily tips count from the database.")
		return
	}

	totalPages := (total + limit - 1) / limit

	if total == 0 {
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:  "success",
			Message: "No daily tips found.",
			Data:    []types.DailyTip{},
			Pagination: &Pagination{
				CurrentPage: page,
				TotalPages:  0,
				Limit:       limit,
				TotalTips:   0,
			},
			Timestamp: nowISO(),
		})
		return
	}

	tips, err := h.tipService.List(r.Context(), category, random, offset, limit)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Failed to retrieve daily tips from the database.")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status: "success",
		Data:   tips,
		Pagination: &Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			Limit:       limit,
			TotalTips:   total,
		},
		Timestamp: nowISO(),
	})
}

func (h *TipHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "tipID"))
	if err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid tip ID")
		return
	}

	tip, err := h.tipService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatusError(w, http.StatusNotFound, "Daily tip not found")
			return
		}
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "success",
		Data:      tip,
		Timestamp: nowISO(),
	})
}

func (h *TipHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.tipService.Categories(r.Context())
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	count := len(categories)
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "success",
		Data:      categories,
		Count:     &count,
		Timestamp: nowISO(),
	})
}
