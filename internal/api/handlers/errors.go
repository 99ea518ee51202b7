package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/middleware"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
)

// writeServiceError sends the client-safe part of err. Server-side causes are
// logged with the request id and never written to the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	se := services.AsError(err)
	status := httpx.StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(op, "err", err, "code", se.Code, "request_id", middleware.RequestIDFrom(r.Context()))
	}
	httpx.WriteError(w, status, se.Code, se.Message, nil)
}
