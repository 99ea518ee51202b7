package auth

import (
	"errors"
	"fmt"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
)

var (
	ErrInitDataMissingHash = errors.New("init data: missing hash")
	ErrInitDataSignature   = errors.New("init data: signature mismatch")
	ErrInitDataExpired     = errors.New("init data: expired")
)

// InitData is the verified payload Telegram hands to a Mini App.
type InitData struct {
	User     models.TelegramUser
	AuthDate time.Time
	QueryID  string
}

// InitDataVerifier checks Telegram.WebApp.initData against the bot token.
type InitDataVerifier struct {
	token  string
	maxAge time.Duration
}

func NewInitDataVerifier(botToken string, maxAge time.Duration) *InitDataVerifier {
	return &InitDataVerifier{token: botToken, maxAge: maxAge}
}

func (v *InitDataVerifier) Verify(raw string) (InitData, error) {
	if err := initdata.Validate(raw, v.token, v.maxAge); err != nil {
		switch {
		case errors.Is(err, initdata.ErrSignMissing):
			return InitData{}, ErrInitDataMissingHash
		case errors.Is(err, initdata.ErrExpired):
			return InitData{}, ErrInitDataExpired
		default:
			return InitData{}, fmt.Errorf("%w: %w", ErrInitDataSignature, err)
		}
	}
	data, err := initdata.Parse(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("init data: %w", err)
	}
	return InitData{
		User: models.TelegramUser{
			ID:           data.User.ID,
			FirstName:    data.User.FirstName,
			LastName:     data.User.LastName,
			Username:     data.User.Username,
			LanguageCode: data.User.LanguageCode,
		},
		AuthDate: data.AuthDate(),
		QueryID:  data.QueryID,
	}, nil
}
