package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mindwell/apiserver/internal/inference"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/uploads"
	"github.com/stretchr/testify/require"
)

func newMoodRouter(t *testing.T, repo *fakeMoodRepo, invoker Invoker, production bool) (http.Handler, *uploads.Store) {
	t.Helper()
	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		MoodRouter(r, services.NewMoodService(repo), invoker, store, production)
	})
	return router, store
}

type imagePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path string, part *imagePart, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if part != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			`form-data; name="`+part.field+`"; filename="`+part.filename+`"`)
		header.Set("Content-Type", part.contentType)
		fw, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = fw.Write(part.data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pngPart() *imagePart {
	return &imagePart{
		field:       "image",
		filename:    "selfie.png",
		contentType: "image/png",
		data:        []byte("\x89PNG fake image bytes"),
	}
}

func TestMoodPredictSuccess(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{}
	invoker := &fakeInvoker{moodResult: inference.MoodPrediction{Mood: "Happy", Confidence: 0.93}}
	router, store := newMoodRouter(t, repo, invoker, false)

	req := multipartRequest(t, "/api/mood", pngPart(), map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeStatus(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Mood prediction processed and recorded successfully!", body["message"])

	result := body["prediction_result"].(map[string]any)
	require.Equal(t, "Happy", result["mood"])
	require.Equal(t, 0.93, result["confidence"])

	// Exactly one record persisted for the posted user.
	require.Len(t, repo.records, 1)
	require.Equal(t, "u1", repo.records[0].UserID)
	require.Equal(t, "Happy", repo.records[0].Mood)

	// The classifier saw a file inside the upload dir, and it was
	// cleaned up afterwards.
	require.Equal(t, 1, invoker.moodCalls)
	require.Equal(t, store.Dir(), filepath.Dir(invoker.lastImagePath))
	_, err := os.Stat(invoker.lastImagePath)
	require.True(t, os.IsNotExist(err))
}

func TestMoodPredictRejectsNonImage(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{}
	invoker := &fakeInvoker{}
	router, _ := newMoodRouter(t, repo, invoker, false)

	part := &imagePart{
		field:       "image",
		filename:    "notes.txt",
		contentType: "text/plain",
		data:        []byte("not an image"),
	}
	req := multipartRequest(t, "/api/mood", part, map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Only image files are allowed!", decodeStatus(t, rec)["message"])
	require.Zero(t, invoker.moodCalls)
	require.Empty(t, repo.records)
}

func TestMoodPredictRejectsOversizedImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
	}{
		// Blows past the body reader bound outright.
		{"well over the limit", 11 << 20},
		// Fits in the body bound but the file itself exceeds 10 MiB.
		{"just over the limit", maxImageBytes + 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeMoodRepo{}
			invoker := &fakeInvoker{}
			router, _ := newMoodRouter(t, repo, invoker, false)

			part := pngPart()
			part.data = bytes.Repeat([]byte("a"), tc.size)
			req := multipartRequest(t, "/api/mood", part, map[string]string{"user_id": "u1"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "Uploaded image exceeds the 10MB limit", decodeStatus(t, rec)["message"])
			require.Zero(t, invoker.moodCalls)
			require.Empty(t, repo.records)
		})
	}
}

func TestMoodPredictMissingImage(t *testing.T) {
	t.Parallel()

	router, _ := newMoodRouter(t, &fakeMoodRepo{}, &fakeInvoker{}, false)

	req := multipartRequest(t, "/api/mood", nil, map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No image uploaded", decodeStatus(t, rec)["message"])
}

func TestMoodPredictMissingUserID(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router, _ := newMoodRouter(t, &fakeMoodRepo{}, invoker, false)

	req := multipartRequest(t, "/api/mood", pngPart(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User ID is required in the request body.", decodeStatus(t, rec)["message"])
	require.Zero(t, invoker.moodCalls)
}

func TestMoodPredictSaveFailureKeepsPrediction(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{createErr: errDatabaseDown}
	invoker := &fakeInvoker{moodResult: inference.MoodPrediction{Mood: "Sad", Confidence: 0.7}}
	router, _ := newMoodRouter(t, repo, invoker, false)

	req := multipartRequest(t, "/api/mood", pngPart(), map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeStatus(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Prediction successful, but failed to save mood record.", body["message"])

	result := body["prediction_result"].(map[string]any)
	require.Equal(t, "Sad", result["mood"])
	require.Equal(t, "database down", body["database_error"])
}

func TestMoodPredictSaveFailureHidesDatabaseErrorInProduction(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{createErr: errDatabaseDown}
	invoker := &fakeInvoker{moodResult: inference.MoodPrediction{Mood: "Sad", Confidence: 0.7}}
	router, _ := newMoodRouter(t, repo, invoker, true)

	req := multipartRequest(t, "/api/mood", pngPart(), map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeStatus(t, rec)
	require.Contains(t, body, "prediction_result")
	require.NotContains(t, body, "database_error")
}

func TestMoodPredictInferenceFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{}
	invoker := &fakeInvoker{moodErr: &inference.Error{
		Message: "Prediction error",
		Detail:  "model could not read the image",
	}}
	router, _ := newMoodRouter(t, repo, invoker, false)

	req := multipartRequest(t, "/api/mood", pngPart(), map[string]string{"user_id": "u1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeStatus(t, rec)
	require.Equal(t, "Prediction error", body["message"])
	require.Equal(t, "model could not read the image", body["error"])
	require.Empty(t, repo.records)
}

func TestListMoods(t *testing.T) {
	t.Parallel()

	repo := &fakeMoodRepo{}
	router, _ := newMoodRouter(t, repo, &fakeInvoker{}, false)

	// Seed through the repo so timestamps are assigned.
	ctx := context.Background()
	for _, mood := range []string{"Happy", "Sad"} {
		_, err := repo.Create(ctx, moodRecordFixture("u1", mood))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, moodRecordFixture("u2", "Angry"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/get-moods?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeStatus(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Mood records fetched for user_id u1", body["message"])
	require.Len(t, body["data"].([]any), 2)
}

func TestListMoodsMissingUserID(t *testing.T) {
	t.Parallel()

	router, _ := newMoodRouter(t, &fakeMoodRepo{}, &fakeInvoker{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/get-moods", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Missing user_id in query parameters.", decodeStatus(t, rec)["message"])
}
