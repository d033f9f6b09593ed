package domain

import "github.com/shopspring/decimal"

// FormatAmount renders an amount held in smallest units as a fixed-point
// string in whole units, e.g. FormatAmount(5_000_000_000, 7) == "500.0000000".
func FormatAmount(amount int64, decimals int32) string {
	if decimals <= 0 {
		return decimal.NewFromInt(amount).String()
	}
	return decimal.New(amount, -decimals).StringFixed(decimals)
}
