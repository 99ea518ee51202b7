package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Port    string
	Version string
	Store   Pinger
	now     func() time.Time
}

func NewHealthHandler(port, version string, store Pinger) *HealthHandler {
	return &HealthHandler{Port: port, Version: version, Store: store, now: time.Now}
}

type healthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Port      string `json:"port"`
	Version   string `json:"version"`
}

// Health handles GET /api/health. It only reports that the process serves
// requests; dependencies are checked by Ready.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, healthResp{
		Status:    "healthy",
		Timestamp: httpx.Timestamp(h.now()),
		Message:   "API service is running",
		Port:      h.Port,
		Version:   h.Version,
	})
}

// Ready handles GET /api/ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			slog.Warn("readiness: store ping failed", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":    "unavailable",
				"timestamp": httpx.Timestamp(h.now()),
			})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": httpx.Timestamp(h.now()),
	})
}
