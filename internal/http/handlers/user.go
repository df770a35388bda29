package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hongminglow/authflow/internal/auth"
	"github.com/hongminglow/authflow/internal/http/respond"
	"github.com/hongminglow/authflow/internal/middleware"
	"github.com/hongminglow/authflow/internal/models/dto"
	"github.com/hongminglow/authflow/internal/storage"
)

// UserHandler serves the authenticated "who am I" endpoint.
type UserHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, tokens *auth.TokenManager, log *slog.Logger) *UserHandler {
	return &UserHandler{store: store, tokens: tokens, log: log}
}

// Register attaches /user/me behind bearer authentication.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.Handle("/user/me", middleware.RequireBearer(h.tokens, http.HandlerFunc(h.handleMe)))
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	id, err := claims.UserID()
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// token outlived its user
			respond.Error(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		h.log.ErrorContext(r.Context(), "whoami: fetch user", "user_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserResponse{User: &user})
}
