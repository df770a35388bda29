package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/authflow/internal/http/respond"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by every storage.UserStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports uptime and whether the user store answers.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
	log       *slog.Logger
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, db Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db, log: log}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status, code, database := "ok", http.StatusOK, "up"
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.WarnContext(r.Context(), "health check: database ping failed", "error", err)
		status, code, database = "degraded", http.StatusServiceUnavailable, "down"
	}

	respond.JSON(w, code, map[string]string{
		"status":   status,
		"database": database,
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
