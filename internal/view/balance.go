package view

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
)

// BalanceSource is where a displayed balance comes from: an explicit amount
// or the coin balance of an account.
type BalanceSource interface {
	amount() decimal.Decimal
}

type explicit decimal.Decimal

func (e explicit) amount() decimal.Decimal { return decimal.Decimal(e) }

type fromAccount models.Account

func (a fromAccount) amount() decimal.Decimal { return a.CoinBalance }

func Explicit(d decimal.Decimal) BalanceSource { return explicit(d) }

func FromAccount(a models.Account) BalanceSource { return fromAccount(a) }

// Balance is the rendered balance widget.
type Balance struct {
	Greeting string          `json:"greeting"`
	Amount   decimal.Decimal `json:"amount"`
	Display  string          `json:"display"`
}

// FormatBalance renders "$" followed by the amount with two decimals and
// comma-grouped Latin digits. The amount never passes through a float.
func FormatBalance(src BalanceSource) string {
	fixed := src.amount().Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// past int64: ungrouped
		return "$" + sign + whole + "." + frac
	}
	p := message.NewPrinter(language.English)
	return "$" + sign + p.Sprint(number.Decimal(n)) + "." + frac
}

func RenderBalance(acc models.Account, src BalanceSource) Balance {
	return Balance{
		Greeting: "Welcome, " + acc.DisplayName(),
		Amount:   src.amount().Round(2),
		Display:  FormatBalance(src),
	}
}
