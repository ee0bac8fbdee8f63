package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mindwell/apiserver/internal/auth"
	"github.com/mindwell/apiserver/internal/inference"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

// StatusResponse is the envelope used by the auth and daily-tip
// endpoints.
type StatusResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
	TotalTips   int `json:"totalTips"`
}

func claimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, errors.New("missing claims")
	}
	return claims, nil
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeStatusError writes the {status:"error"} envelope family.
func writeStatusError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, StatusResponse{
		Status:    "error",
		Message:   message,
		Timestamp: nowISO(),
	})
}

// writeFlagError writes the {success:false} envelope family, with
// optional extra diagnostic fields.
func writeFlagError(w http.ResponseWriter, status int, message string, extra map[string]any) {
	payload := map[string]any{
		"success":   false,
		"message":   message,
		"timestamp": nowISO(),
	}
	for key, value := range extra {
		payload[key] = value
	}
	writeJSON(w, status, payload)
}

// writeInferenceError maps an invoker failure onto the {success:false}
// envelope. Diagnostic detail is withheld in production.
func writeInferenceError(w http.ResponseWriter, err error, production bool) {
	var infErr *inference.Error
	if !errors.As(err, &infErr) {
		writeFlagError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	extra := map[string]any{}
	if !production {
		if infErr.Detail != "" {
			extra["error"] = infErr.Detail
		}
		if infErr.RawOutput != "" {
			extra["raw_output"] = infErr.RawOutput
		}
		if infErr.Received != nil {
			extra["received_data"] = infErr.Received
		}
	}
	writeFlagError(w, http.StatusInternalServerError, infErr.Message, extra)
}

// RequireAuth enforces a valid bearer token and injects the session
// claims into the request context. A missing token is 401, a failed
// signature or expiry check is 403.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeStatusError(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := auth.ParseToken(tokenString, secret)
			if err != nil {
				writeStatusError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), contextClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
