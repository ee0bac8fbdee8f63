package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	assessmentScript = "predict_model.py"
	moodScript       = "predict_mood.py"

	msgExecution    = "Error during prediction execution"
	msgSpawn        = "Failed to start prediction process"
	msgTimeout      = "Prediction process timed out"
	msgParse        = "Error parsing prediction result"
	msgMissingLabel = "Error parsing prediction result: Invalid format or missing label"
	msgPrediction   = "Prediction error"
	msgMoodShape    = "Error: Invalid prediction result format or missing mood/confidence properties."
)

// MoodPrediction is the parsed output of the image classifier.
type MoodPrediction struct {
	Mood       string  `json:"mood"`
	Confidence float64 `json:"confidence"`
}

// Runner invokes the external Python prediction scripts. Each run is a
// single spawn: serialize input, drain stdout/stderr, wait for exit,
// parse. Runs are bounded by the configured timeout.
type Runner struct {
	pythonBin  string
	scriptsDir string
	timeout    time.Duration
}

func NewRunner(pythonBin, scriptsDir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Runner{
		pythonBin:  pythonBin,
		scriptsDir: scriptsDir,
		timeout:    timeout,
	}
}

// RunAssessment scores a validated self-assessment feature set. The
// result is returned verbatim; the only shape requirement is a
// non-empty "label" field.
func (r *Runner) RunAssessment(ctx context.Context, features map[string]int) (map[string]any, error) {
	payload, err := json.Marshal(features)
	if err != nil {
		return nil, &Error{Message: msgSpawn, Detail: err.Error()}
	}

	stdout, runErr := r.run(ctx, assessmentScript, string(payload), nil)
	if runErr != nil {
		return nil, runErr
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		return nil, &Error{Message: msgParse, Detail: err.Error(), RawOutput: stdout}
	}

	if label, ok := result["label"].(string); !ok || label == "" {
		return nil, &Error{Message: msgMissingLabel, Received: result}
	}
	return result, nil
}

// RunMoodImage classifies the mood in the image at the given path. The
// script reads the file itself; the caller owns cleanup.
func (r *Runner) RunMoodImage(ctx context.Context, imagePath string) (MoodPrediction, error) {
	stdout, runErr := r.run(ctx, moodScript, imagePath, []string{"PYTHONIOENCODING=utf-8"})
	if runErr != nil {
		return MoodPrediction{}, runErr
	}

	var result struct {
		Error      *string  `json:"error"`
		Prediction *string  `json:"prediction"`
		Confidence *float64 `json:"confidence"`
	}
	cleaned := strings.TrimSpace(stdout)
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return MoodPrediction{}, &Error{Message: msgParse, Detail: err.Error(), RawOutput: stdout}
	}

	if result.Error != nil {
		return MoodPrediction{}, &Error{Message: msgPrediction, Detail: *result.Error}
	}
	if result.Prediction == nil || result.Confidence == nil {
		var received map[string]any
		_ = json.Unmarshal([]byte(cleaned), &received)
		return MoodPrediction{}, &Error{Message: msgMoodShape, Received: received}
	}

	return MoodPrediction{Mood: *result.Prediction, Confidence: *result.Confidence}, nil
}

func (r *Runner) run(ctx context.Context, script, arg string, extraEnv []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.pythonBin, filepath.Join(r.scriptsDir, script), arg)
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &Error{Message: msgTimeout, Detail: stderr.String()}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &Error{Message: msgExecution, Detail: stderr.String()}
		}
		return "", &Error{Message: msgSpawn, Detail: err.Error()}
	}

	return stdout.String(), nil
}
