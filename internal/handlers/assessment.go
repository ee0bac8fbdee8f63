package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mindwell/apiserver/internal/inference"
	"github.com/mindwell/apiserver/types"
)

// Invoker runs the external prediction processes.
type Invoker interface {
	RunAssessment(ctx context.Context, features map[string]int) (map[string]any, error)
	RunMoodImage(ctx context.Context, imagePath string) (inference.MoodPrediction, error)
}

// AssessmentHandler scores manual self-assessments through the
// external model.
type AssessmentHandler struct {
	invoker    Invoker
	production bool
}

func NewAssessmentHandler(invoker Invoker, production bool) *AssessmentHandler {
	return &AssessmentHandler{invoker: invoker, production: production}
}

// AssessmentRouter registers the self-assessment route on the given
// router.
func AssessmentRouter(r chi.Router, invoker Invoker, production bool) {
	handler := NewAssessmentHandler(invoker, production)
	r.Post("/self-assessment", handler.Run)
}

// Run validates the twenty-feature payload and invokes the scoring
// process. The result is passed through verbatim.
func (h *AssessmentHandler) Run(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		writeFlagError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	features, badField, missing := parseAssessmentFeatures(payload)
	if len(missing) > 0 {
		writeFlagError(w, http.StatusBadRequest,
			fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			map[string]any{"required_fields": types.AssessmentFeatures})
		return
	}
	if badField != "" {
		writeFlagError(w, http.StatusBadRequest,
			fmt.Sprintf("Field '%s' must be a non-negative integer", badField), nil)
		return
	}

	result, err := h.invoker.RunAssessment(r.Context(), features)
	if err != nil {
		writeInferenceError(w, err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"assessment_result": result,
		"timestamp":         nowISO(),
	})
}

// parseAssessmentFeatures checks the payload against the required
// feature list. Missing names are collected in declaration order; the
// first value that is not a non-negative integer is reported by name.
func parseAssessmentFeatures(payload map[string]any) (features map[string]int, badField string, missing []string) {
	for _, name := range types.AssessmentFeatures {
		if _, ok := payload[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, "", missing
	}

	features = make(map[string]int, len(types.AssessmentFeatures))
	for _, name := range types.AssessmentFeatures {
		number, ok := payload[name].(json.Number)
		if !ok {
			return nil, name, nil
		}
		value, err := number.Int64()
		if err != nil || value < 0 {
			return nil, name, nil
		}
		features[name] = int(value)
	}
	return features, "", nil
}
