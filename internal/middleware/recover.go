package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/view"
)

// Recover is the error boundary for everything below it: a panic is logged
// and the fallback view is rendered in place of the handler's output.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			id := RequestIDFrom(r.Context())
			slog.Error("panic", "err", rec, "request_id", id, "path", r.URL.Path, "stack", string(debug.Stack()))
			httpx.WriteJSON(w, http.StatusInternalServerError, view.NewFallback(id))
		}()
		next.ServeHTTP(w, r)
	})
}
