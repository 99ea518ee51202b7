package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/baharkarakas/lottery-miniapp-api/internal/api/validate"
	"github.com/baharkarakas/lottery-miniapp-api/internal/auth"
	"github.com/baharkarakas/lottery-miniapp-api/internal/events"
	"github.com/baharkarakas/lottery-miniapp-api/internal/metrics"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	repo "github.com/baharkarakas/lottery-miniapp-api/internal/repository"
	"github.com/baharkarakas/lottery-miniapp-api/internal/telemetry"
	"github.com/baharkarakas/lottery-miniapp-api/internal/worker"
)

const (
	maxUsernameLen = 50
	maxFullNameLen = 100
)

// TelegramUserData is the identity assertion as the Mini App posts it. ID is
// kept raw because clients send it both as a number and as a digit string.
type TelegramUserData struct {
	ID           json.RawMessage `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Username     string          `json:"username"`
	LanguageCode string          `json:"language_code"`
}

type LoginRequest struct {
	User     *TelegramUserData
	InitData string
}

type LoginResult struct {
	Account models.Account
	IsNew   bool
	Session *auth.Pair
}

type AccountService struct {
	accounts repo.Accounts
	audit    repo.AuditLogs
	pub      events.Publisher
	wp       *worker.Pool
	tokens   *auth.TokenManager

	// nil when no bot token is configured
	initData        *auth.InitDataVerifier
	requireInitData bool
}

type AccountOption func(*AccountService)

func WithTokens(tm *auth.TokenManager) AccountOption {
	return func(s *AccountService) { s.tokens = tm }
}

func WithInitData(v *auth.InitDataVerifier, required bool) AccountOption {
	return func(s *AccountService) {
		s.initData = v
		s.requireInitData = required
	}
}

func NewAccountService(accounts repo.Accounts, audit repo.AuditLogs, pub events.Publisher, wp *worker.Pool, opts ...AccountOption) *AccountService {
	s := &AccountService{accounts: accounts, audit: audit, pub: pub, wp: wp}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login returns the account for the asserted Telegram identity, creating it
// with the default values on first sighting. Existing accounts are returned
// as stored; display fields are not refreshed.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if req.User == nil {
		return LoginResult{}, ClientError(CodeNoUserData, MsgNoUserData)
	}
	id, ok := ParseTelegramID(req.User.ID)
	if !ok {
		return LoginResult{}, ClientError(CodeInvalidUserData, MsgInvalidUserData)
	}
	tu := models.TelegramUser{
		ID:           id,
		FirstName:    req.User.FirstName,
		LastName:     req.User.LastName,
		Username:     req.User.Username,
		LanguageCode: req.User.LanguageCode,
	}
	if errs := validate.Collect(
		validate.MaxLen("username", tu.Username, maxUsernameLen),
		validate.MaxLen("full_name", tu.FullName(), maxFullNameLen),
	); len(errs) > 0 {
		return LoginResult{}, ClientError(CodeValidation, errs.Error())
	}
	if err := s.verifyInitData(req.InitData, id); err != nil {
		return LoginResult{}, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "accounts.login")
	defer span.End()
	span.SetAttributes(attribute.Int64("telegram.id", id))

	res, err := s.lookupOrProvision(ctx, tu)
	if err != nil {
		metrics.AccountsProvisioned.WithLabelValues("failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return LoginResult{}, err
	}
	if res.IsNew {
		metrics.AccountsProvisioned.WithLabelValues("created").Inc()
		s.afterCreate(res.Account)
	} else {
		metrics.AccountsProvisioned.WithLabelValues("existing").Inc()
	}
	span.SetAttributes(attribute.Bool("account.created", res.IsNew))

	if s.tokens != nil {
		pair, err := s.tokens.GeneratePair(res.Account.ID, res.Account.TelegramID)
		if err != nil {
			return LoginResult{}, ServerError(CodeInternal, MsgInternal, err)
		}
		res.Session = &pair
	}
	return res, nil
}

func (s *AccountService) lookupOrProvision(ctx context.Context, tu models.TelegramUser) (LoginResult, error) {
	acc, err := s.accounts.GetByTelegramID(ctx, tu.ID)
	switch {
	case err == nil:
		return LoginResult{Account: acc}, nil
	case !errors.Is(err, repo.ErrNotFound):
		return LoginResult{}, ServerError(CodeInternal, MsgInternal, err)
	}

	acc, created, err := s.accounts.Provision(ctx, models.DefaultNewAccount(tu))
	if err != nil {
		if errors.Is(err, repo.ErrInsertRejected) {
			return LoginResult{}, ServerError(CodeCreateFailed, MsgCreateFailed, err)
		}
		return LoginResult{}, ServerError(CodeInternal, MsgInternal, err)
	}
	// created is false when a concurrent login for the same identity won the insert
	return LoginResult{Account: acc, IsNew: created}, nil
}

func (s *AccountService) verifyInitData(raw string, id int64) error {
	if s.initData == nil {
		return nil
	}
	if raw == "" {
		if s.requireInitData {
			return UnauthorizedError(CodeInvalidInitData, MsgInvalidInitData, errors.New("init data missing"))
		}
		return nil
	}
	data, err := s.initData.Verify(raw)
	if err != nil {
		return UnauthorizedError(CodeInvalidInitData, MsgInvalidInitData, err)
	}
	if data.User.ID != id {
		return UnauthorizedError(CodeInvalidInitData, MsgInvalidInitData,
			errors.New("init data user does not match asserted id"))
	}
	return nil
}

// afterCreate records the creation off the request path.
func (s *AccountService) afterCreate(acc models.Account) {
	if s.wp == nil {
		return
	}
	s.wp.Submit(func() {
		ctx := context.Background()
		if s.audit != nil {
			if err := s.audit.Create(ctx, models.AuditLog{
				EntityType: "account",
				EntityID:   &acc.ID,
				Action:     "created",
				Details:    map[string]any{"telegram_id": acc.TelegramID},
			}); err != nil {
				slog.Error("audit account created", "account_id", acc.ID, "err", err)
			}
		}
		if s.pub != nil {
			if err := s.pub.Publish(ctx, events.AccountCreatedEvent{
				AccountID:  acc.ID,
				TelegramID: acc.TelegramID,
				Username:   acc.Username,
				CreatedAt:  acc.CreatedAt,
			}); err != nil {
				slog.Error("publish account created", "account_id", acc.ID, "err", err)
			}
		}
	})
}

// Refresh exchanges a refresh token for a new pair, provided the account still exists.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	if s.tokens == nil {
		return auth.Pair{}, ServerError(CodeInternal, MsgInternal, errors.New("token manager not configured"))
	}
	if errs := validate.Collect(validate.Required("refreshToken", refreshToken)); len(errs) > 0 {
		return auth.Pair{}, ClientError(CodeValidation, errs.Error())
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Pair{}, UnauthorizedError(CodeInvalidToken, "invalid refresh token", err)
	}
	acc, err := s.Get(ctx, claims.AccountID)
	if err != nil {
		var se *Error
		if errors.As(err, &se) && se.Code == CodeNotFound {
			return auth.Pair{}, UnauthorizedError(CodeInvalidToken, "invalid refresh token", err)
		}
		return auth.Pair{}, err
	}
	pair, err := s.tokens.GeneratePair(acc.ID, acc.TelegramID)
	if err != nil {
		return auth.Pair{}, ServerError(CodeInternal, MsgInternal, err)
	}
	return pair, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (models.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Account{}, NotFoundError("account not found", err)
	}
	if err != nil {
		return models.Account{}, ServerError(CodeInternal, MsgInternal, err)
	}
	return acc, nil
}

func (s *AccountService) Ping(ctx context.Context) error {
	return s.accounts.Ping(ctx)
}

// ParseTelegramID accepts a positive integer given as a JSON number or a
// digit string. Anything else, including 0, is not an identifier.
func ParseTelegramID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	} else {
		s = string(raw)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
