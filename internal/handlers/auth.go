package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mindwell/apiserver/internal/auth"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/store"
	"github.com/mindwell/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength   = 6
	usernameAttempts    = 4
	usernameSuffixSpace = 10000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GoogleTokenVerifier validates a Google ID token and extracts the
// identity claims the server needs.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.GoogleIdentity, error)
}

// AuthHandler provides registration, login, Google sign-in, and the
// authenticated profile endpoint.
type AuthHandler struct {
	userService *services.UserService
	google      GoogleTokenVerifier
	secret      []byte
}

func NewAuthHandler(userService *services.UserService, google GoogleTokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		google:      google,
		secret:      []byte(jwtSecret),
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, google GoogleTokenVerifier, jwtSecret string) {
	handler := NewAuthHandler(userService, google, jwtSecret)

	r.Post("/google", handler.GoogleAuth)
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(RequireAuth(jwtSecret)).Get("/me", handler.Me)
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleAuthRequest struct {
	Token string `json:"token"`
}

// AuthData is the data section of a successful auth response.
type AuthData struct {
	User      types.UserProfile `json:"user"`
	Token     string            `json:"token"`
	IsNewUser *bool             `json:"isNewUser,omitempty"`
}

// Register creates a password-backed account and returns a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeStatusError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		writeStatusError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeStatusError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	exists, err := h.userService.ExistsByEmailOrUsername(r.Context(), req.Email, req.Username)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		writeStatusError(w, http.StatusConflict, "User with this email or username already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	hash := string(hashed)

	user, err := h.userService.Create(r.Context(), types.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hash,
	})
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := auth.IssueToken(user, h.secret)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, StatusResponse{
		Status:    "success",
		Message:   "User registered successfully",
		Data:      AuthData{User: user.Profile(), Token: token},
		Timestamp: nowISO(),
	})
}

// Login verifies a password credential and returns a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeStatusError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatusError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Google-only accounts have no password hash; the message must make
	// that case recognizable instead of a generic credential failure.
	if user.PasswordHash == nil {
		writeStatusError(w, http.StatusUnauthorized, "This account was created with Google. Please use Google Sign-In.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		writeStatusError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.IssueToken(user, h.secret)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.userService.Touch(r.Context(), user.ID); err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "success",
		Message:   "Login successful",
		Data:      AuthData{User: user.Profile(), Token: token},
		Timestamp: nowISO(),
	})
}

// GoogleAuth exchanges a verified Google ID token for a local session,
// creating or reconciling the account as needed.
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var req GoogleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeStatusError(w, http.StatusBadRequest, "Google token is required")
		return
	}

	identity, err := h.google.Verify(r.Context(), req.Token)
	if err != nil {
		writeStatusError(w, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	var user types.User
	isNewUser := false

	existing, err := h.userService.GetByEmailOrGoogleID(r.Context(), identity.Email, identity.Subject)
	switch {
	case err == nil:
		user, err = h.userService.LinkGoogleIdentity(r.Context(), existing.ID, identity.Subject, identity.Picture)
		if err != nil {
			writeStatusError(w, http.StatusInternalServerError, "Internal server error during Google authentication")
			return
		}
	case errors.Is(err, store.ErrNotFound):
		isNewUser = true
		username, err := h.pickUsername(r.Context(), identity.Email)
		if err != nil {
			writeStatusError(w, http.StatusInternalServerError, "Internal server error during Google authentication")
			return
		}

		newUser := types.User{
			ID:       uuid.NewString(),
			Username: username,
			Email:    identity.Email,
			GoogleID: &identity.Subject,
		}
		if identity.Picture != "" {
			newUser.AvatarURL = &identity.Picture
		}

		user, err = h.userService.Create(r.Context(), newUser)
		if err != nil {
			writeStatusError(w, http.StatusInternalServerError, "Internal server error during Google authentication")
			return
		}
	default:
		writeStatusError(w, http.StatusInternalServerError, "Internal server error during Google authentication")
		return
	}

	token, err := auth.IssueToken(user, h.secret)
	if err != nil {
		writeStatusError(w, http.StatusInternalServerError, "Internal server error during Google authentication")
		return
	}

	message := "Login successful"
	if isNewUser {
		message = "Account created successfully with Google"
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "success",
		Message:   message,
		Data:      AuthData{User: user.Profile(), Token: token, IsNewUser: &isNewUser},
		Timestamp: nowISO(),
	})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeStatusError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStatusError(w, http.StatusNotFound, "User not found")
			return
		}
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "success",
		Data:      map[string]types.UserProfile{"user": user.Profile()},
		Timestamp: nowISO(),
	})
}

// pickUsername derives a username from the email local part plus a
// random numeric suffix, retrying against the store a bounded number of
// times before falling back to a timestamp suffix.
func (h *AuthHandler) pickUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	for i := 0; i < usernameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d", base, rand.Intn(usernameSuffixSpace))
		taken, err := h.userService.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return fmt.Sprintf("%s_%d", base, time.Now().UnixMilli()), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
