package handlers

import (
	"errors"
	"net/http"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/middleware"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
	"github.com/baharkarakas/lottery-miniapp-api/internal/view"
)

const profilePath = "/profile"

var errNoPrincipal = errors.New("no principal in context")

type ProfileHandler struct {
	Accounts AccountService
}

func NewProfileHandler(accounts AccountService) *ProfileHandler {
	return &ProfileHandler{Accounts: accounts}
}

type meResp struct {
	User       models.Account `json:"user"`
	Balance    view.Balance   `json:"balance"`
	Navigation []view.NavItem `json:"navigation"`
}

// Me handles GET /api/me for the authenticated account.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeServiceError(w, r, "profile: me", services.UnauthorizedError(services.CodeInvalidToken, "missing principal", errNoPrincipal))
		return
	}
	acc, err := h.Accounts.Get(r.Context(), p.AccountID)
	if err != nil {
		writeServiceError(w, r, "profile: me", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, meResp{
		User:       acc,
		Balance:    view.RenderBalance(acc, view.FromAccount(acc)),
		Navigation: view.Navigation(profilePath),
	})
}

// Navigation handles GET /api/navigation?path=.
func Navigation(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"items": view.Navigation(r.URL.Query().Get("path")),
	})
}
