package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/authflow/internal/auth"
	"github.com/hongminglow/authflow/internal/http/respond"
	"github.com/hongminglow/authflow/internal/metrics"
	"github.com/hongminglow/authflow/internal/models"
	"github.com/hongminglow/authflow/internal/models/dto"
	"github.com/hongminglow/authflow/internal/storage"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts passwords up to this many bytes.
	maxPasswordBytes = 72
)

// AuthHandler owns the register/login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := hashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Firstname:    strings.TrimSpace(req.Firstname),
		Lastname:     strings.TrimSpace(req.Lastname),
		PasswordHash: passwordHash,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			respond.Error(w, http.StatusConflict, "username already taken")
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			h.log.ErrorContext(r.Context(), "create user failed", "username", user.Username, "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	h.log.InfoContext(r.Context(), "user registered", "user_id", created.ID, "username", created.Username)
	respond.JSON(w, http.StatusCreated, dto.UserResponse{User: &created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}
	user, err := h.store.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
			h.log.InfoContext(r.Context(), "login failed: unknown user", "username", username)
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.log.ErrorContext(r.Context(), "login failed: fetch user", "username", username, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		h.log.ErrorContext(r.Context(), "generate token failed", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Firstname) == "" || strings.TrimSpace(req.Lastname) == "" {
		return errors.New("username, firstname, and lastname are required")
	}
	if !utf8.ValidString(req.Password) || utf8.RuneCountInString(req.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(req.Password) > maxPasswordBytes {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
