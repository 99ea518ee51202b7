package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
)

const devTokenPrefix = "dev-"

type AuthMiddleware struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthMiddleware(tm *auth.TokenManager, appEnv string) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, AppEnv: appEnv}
}

// Auth accepts "Bearer <access JWT>", and in dev also "Bearer dev-<account id>".
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < len("bearer ") || !strings.EqualFold(ah[:len("bearer ")], "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("bearer "):])

		if m.AppEnv == "dev" && strings.HasPrefix(token, devTokenPrefix) {
			if id := strings.TrimPrefix(token, devTokenPrefix); id != "" {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{AccountID: id})))
				return
			}
		}

		claims, err := m.TM.ParseAccess(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
			return
		}
		ctx := WithPrincipal(r.Context(), Principal{AccountID: claims.AccountID, TelegramID: claims.TelegramID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
