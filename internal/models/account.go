package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the store returns numerics as JSON numbers; keep the same shape on the way out
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultLanguage       = "en"
	DefaultFreeDailyCount = 3
)

// Account is the persisted record for one Telegram identity.
type Account struct {
	ID              string          `json:"id"`
	TelegramID      int64           `json:"telegram_id"`
	Username        *string         `json:"username"`
	FirstName       *string         `json:"first_name"`
	LastName        *string         `json:"last_name"`
	FullName        *string         `json:"full_name"`
	CoinBalance     decimal.Decimal `json:"coin_balance"`
	PlatformBalance decimal.Decimal `json:"platform_balance"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	VIPLevel        int             `json:"vip_level"`
	FreeDailyCount  int             `json:"free_daily_count"`
	TrustScore      int             `json:"trust_score"`
	IsSuspicious    bool            `json:"is_suspicious"`
	HasFirstLottery bool            `json:"has_first_lottery"`
	Language        string          `json:"language"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAccount holds the values written when an identity is first seen.
type NewAccount struct {
	TelegramID      int64           `json:"telegram_id"`
	Username        *string         `json:"username"`
	FirstName       *string         `json:"first_name"`
	LastName        *string         `json:"last_name"`
	FullName        *string         `json:"full_name"`
	CoinBalance     decimal.Decimal `json:"coin_balance"`
	PlatformBalance decimal.Decimal `json:"platform_balance"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	VIPLevel        int             `json:"vip_level"`
	FreeDailyCount  int             `json:"free_daily_count"`
	TrustScore      int             `json:"trust_score"`
	IsSuspicious    bool            `json:"is_suspicious"`
	HasFirstLottery bool            `json:"has_first_lottery"`
	Language        string          `json:"language"`
}

// DefaultNewAccount maps a Telegram profile onto the create-time defaults.
// Absent display fields are stored as null.
func DefaultNewAccount(tu TelegramUser) NewAccount {
	return NewAccount{
		TelegramID:      tu.ID,
		Username:        nullable(tu.Username),
		FirstName:       nullable(tu.FirstName),
		LastName:        nullable(tu.LastName),
		FullName:        nullable(tu.FullName()),
		CoinBalance:     decimal.Zero,
		PlatformBalance: decimal.Zero,
		TotalSpent:      decimal.Zero,
		VIPLevel:        0,
		FreeDailyCount:  DefaultFreeDailyCount,
		TrustScore:      0,
		IsSuspicious:    false,
		HasFirstLottery: false,
		Language:        DefaultLanguage,
	}
}

// DisplayName mirrors what the client shows in its greeting.
func (a Account) DisplayName() string {
	switch {
	case a.FullName != nil && *a.FullName != "":
		return *a.FullName
	case a.Username != nil && *a.Username != "":
		return *a.Username
	default:
		return "User"
	}
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
