package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/services"
)

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthHandler_Login_Success(t *testing.T) {
	var got services.LoginRequest
	h := NewAuthHandler(&fakeAccounts{login: func(req services.LoginRequest) (services.LoginResult, error) {
		got = req
		return services.LoginResult{
			Account: models.Account{ID: "acc-1", TelegramID: 42, FreeDailyCount: 3, Language: "en"},
			IsNew:   true,
			Session: &auth.Pair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
		}, nil
	}})

	rec := postJSON(h.Login, "/api/auth", `{"telegramUserData":{"id":42,"first_name":"Ada"},"initData":"x=1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.User)
	assert.JSONEq(t, "42", string(got.User.ID))
	assert.Equal(t, "Ada", got.User.FirstName)
	assert.Equal(t, "x=1", got.InitData)

	body := decode(t, rec)
	assert.Equal(t, true, body["isNewUser"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "acc-1", user["id"])
	assert.Equal(t, float64(0), user["coin_balance"])
	assert.Equal(t, float64(3), user["free_daily_count"])
	assert.Equal(t, "a", body["session"].(map[string]any)["accessToken"])
}

func TestAuthHandler_Login_NoSessionOmitted(t *testing.T) {
	h := NewAuthHandler(&fakeAccounts{login: func(services.LoginRequest) (services.LoginResult, error) {
		return services.LoginResult{Account: models.Account{ID: "acc-1"}}, nil
	}})

	rec := postJSON(h.Login, "/api/auth", `{"telegramUserData":{"id":1}}`)

	body := decode(t, rec)
	assert.Equal(t, false, body["isNewUser"])
	assert.NotContains(t, body, "session")
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{"malformed body", `{not json`, nil, http.StatusInternalServerError, services.MsgInternal},
		{"no user data", `{}`, services.ClientError(services.CodeNoUserData, services.MsgNoUserData), http.StatusBadRequest, services.MsgNoUserData},
		{"non-object body", `[1,2]`, nil, http.StatusInternalServerError, services.MsgInternal},
		{"user data wrong shape", `{"telegramUserData":{"id":1,"first_name":5}}`, nil, http.StatusBadRequest, services.MsgInvalidUserData},
		{"invalid id", `{"telegramUserData":{}}`, services.ClientError(services.CodeInvalidUserData, services.MsgInvalidUserData), http.StatusBadRequest, services.MsgInvalidUserData},
		{"init data", `{"telegramUserData":{"id":1}}`, services.UnauthorizedError(services.CodeInvalidInitData, services.MsgInvalidInitData, errBoom), http.StatusUnauthorized, services.MsgInvalidInitData},
		{"create failed", `{"telegramUserData":{"id":1}}`, services.ServerError(services.CodeCreateFailed, services.MsgCreateFailed, errBoom), http.StatusInternalServerError, services.MsgCreateFailed},
		{"unexpected", `{"telegramUserData":{"id":1}}`, errBoom, http.StatusInternalServerError, services.MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAccounts{login: func(services.LoginRequest) (services.LoginResult, error) {
				return services.LoginResult{}, tt.err
			}})

			rec := postJSON(h.Login, "/api/auth", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.message, body["error"])
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestAuthHandler_Login_UserDataShapes(t *testing.T) {
	// the fake reproduces the service's nil check so only decoding is under test
	h := NewAuthHandler(&fakeAccounts{login: func(req services.LoginRequest) (services.LoginResult, error) {
		if req.User == nil {
			return services.LoginResult{}, services.ClientError(services.CodeNoUserData, services.MsgNoUserData)
		}
		return services.LoginResult{Account: models.Account{ID: "acc-1"}}, nil
	}})

	tests := []struct {
		value   string
		status  int
		message string
	}{
		{`null`, http.StatusBadRequest, services.MsgNoUserData},
		{`false`, http.StatusBadRequest, services.MsgNoUserData},
		{`""`, http.StatusBadRequest, services.MsgNoUserData},
		{`0`, http.StatusBadRequest, services.MsgNoUserData},
		{`0.0`, http.StatusBadRequest, services.MsgNoUserData},
		{`true`, http.StatusBadRequest, services.MsgInvalidUserData},
		{`"x"`, http.StatusBadRequest, services.MsgInvalidUserData},
		{`7`, http.StatusBadRequest, services.MsgInvalidUserData},
		{`[]`, http.StatusBadRequest, services.MsgInvalidUserData},
		{`{"id":1}`, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := postJSON(h.Login, "/api/auth", `{"telegramUserData":`+tt.value+`}`)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, rec)["error"])
			}
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	h := NewAuthHandler(&fakeAccounts{refresh: func(token string) (auth.Pair, error) {
		if token != "good" {
			return auth.Pair{}, services.UnauthorizedError(services.CodeInvalidToken, "invalid refresh token", errBoom)
		}
		return auth.Pair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil
	}})

	rec := postJSON(h.Refresh, "/api/auth/refresh", `{"refreshToken":"good"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a2", decode(t, rec)["accessToken"])

	rec = postJSON(h.Refresh, "/api/auth/refresh", `{"refreshToken":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(h.Refresh, "/api/auth/refresh", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
