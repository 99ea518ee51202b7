package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNewAccount(t *testing.T) {
	na := DefaultNewAccount(TelegramUser{ID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"})

	assert.Equal(t, int64(42), na.TelegramID)
	require.NotNil(t, na.Username)
	assert.Equal(t, "ada", *na.Username)
	require.NotNil(t, na.FullName)
	assert.Equal(t, "Ada Lovelace", *na.FullName)
	assert.True(t, na.CoinBalance.IsZero())
	assert.True(t, na.PlatformBalance.IsZero())
	assert.True(t, na.TotalSpent.IsZero())
	assert.Equal(t, 0, na.VIPLevel)
	assert.Equal(t, 3, na.FreeDailyCount)
	assert.Equal(t, 0, na.TrustScore)
	assert.False(t, na.IsSuspicious)
	assert.False(t, na.HasFirstLottery)
	assert.Equal(t, "en", na.Language)
}

func TestDefaultNewAccount_NullsAbsentFields(t *testing.T) {
	na := DefaultNewAccount(TelegramUser{ID: 7})

	assert.Nil(t, na.Username)
	assert.Nil(t, na.FirstName)
	assert.Nil(t, na.LastName)
	assert.Nil(t, na.FullName)
}

func TestTelegramUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada", TelegramUser{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", TelegramUser{LastName: " Lovelace "}.FullName())
	assert.Equal(t, "", TelegramUser{}.FullName())
}

func TestAccount_DisplayName(t *testing.T) {
	name, user := "Ada Lovelace", "ada"
	assert.Equal(t, "Ada Lovelace", Account{FullName: &name, Username: &user}.DisplayName())
	assert.Equal(t, "ada", Account{Username: &user}.DisplayName())
	assert.Equal(t, "User", Account{}.DisplayName())
}

func TestAccount_BalancesMarshalAsNumbers(t *testing.T) {
	b, err := json.Marshal(Account{ID: "a", TelegramID: 1})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, float64(0), out["coin_balance"])
	assert.Nil(t, out["username"])
}
