package model

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a whole-unit amount with the currency's grouping and symbol
func FormatAmount(code CurrencyCode, amount int64) string {
	cur := money.GetCurrency(string(code))
	if cur == nil {
		return strconv.FormatInt(amount, 10) + " " + string(code)
	}
	// go-money works in minor units
	minor := decimal.NewFromInt(amount).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), string(code)).Display()
}
