package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/httpx"
	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
)

type AccountService interface {
	Login(ctx context.Context, req services.LoginRequest) (services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Pair, error)
	Get(ctx context.Context, accountID string) (models.Account, error)
}

type AuthHandler struct {
	Accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

type loginReq struct {
	TelegramUserData json.RawMessage `json:"telegramUserData"`
	InitData         string          `json:"initData,omitempty"`
}

type loginResp struct {
	User      models.Account `json:"user"`
	IsNewUser bool           `json:"isNewUser"`
	Session   *auth.Pair     `json:"session,omitempty"`
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// an unreadable body is reported like any other unexpected failure
		writeServiceError(w, r, "auth: decode body", services.ServerError(services.CodeInternal, services.MsgInternal, err))
		return
	}
	user, err := decodeUserData(req.TelegramUserData)
	if err != nil {
		writeServiceError(w, r, "auth: login", err)
		return
	}
	res, err := h.Accounts.Login(r.Context(), services.LoginRequest{
		User:     user,
		InitData: req.InitData,
	})
	if err != nil {
		writeServiceError(w, r, "auth: login", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResp{
		User:      res.Account,
		IsNewUser: res.IsNew,
		Session:   res.Session,
	})
}

// decodeUserData reads the identity assertion. null, false, "" and 0 count as
// absent; any other non-object value is an invalid assertion.
func decodeUserData(raw json.RawMessage) (*services.TelegramUserData, error) {
	raw = bytes.TrimSpace(raw)
	if isFalsy(raw) {
		return nil, nil
	}
	if raw[0] != '{' {
		return nil, services.ClientError(services.CodeInvalidUserData, services.MsgInvalidUserData)
	}
	var u services.TelegramUserData
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, services.ClientError(services.CodeInvalidUserData, services.MsgInvalidUserData)
	}
	return &u, nil
}

func isFalsy(raw []byte) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == 0 {
		return true
	}
	return false
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, r, "auth: refresh", services.ClientError(services.CodeValidation, "invalid request"))
		return
	}
	pair, err := h.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, "auth: refresh", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}
