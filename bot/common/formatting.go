package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatDinks formats an amount with thousand separators and at most two decimals
func FormatDinks(amount decimal.Decimal) string {
	return groupThousands(amount.Round(2).String())
}

// FormatDinksCompact formats an amount in compact form (e.g. 100k, 1.5M)
func FormatDinksCompact(amount decimal.Decimal) string {
	units := []struct {
		suffix string
		size   decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
		{"k", decimal.New(1, 3)},
	}
	for _, u := range units {
		if amount.Abs().GreaterThanOrEqual(u.size) {
			return amount.Div(u.size).Truncate(1).String() + u.suffix
		}
	}
	return amount.Round(2).String()
}

// FormatCoins formats a bitcoin amount with satoshi precision
func FormatCoins(coins decimal.Decimal) string {
	return coins.StringFixed(8)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// groupThousands inserts commas into the integer part of a decimal string
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return sign + s
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	if hasFrac {
		result.WriteString(".")
		result.WriteString(fracPart)
	}
	return result.String()
}
