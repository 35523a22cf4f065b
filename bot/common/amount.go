package common

import (
	"errors"
	"strings"

	"dinks/service"

	"github.com/shopspring/decimal"
)

// Amount keywords resolved against what the user holds
const (
	AmountAll  = "all"
	AmountHalf = "half"
)

// ErrUnparsableAmount is returned for input that is not a number, suffix or keyword
var ErrUnparsableAmount = errors.New("unparsable amount")

var amountSuffixes = map[byte]decimal.Decimal{
	'k': decimal.New(1, 3),
	'm': decimal.New(1, 6),
	'b': decimal.New(1, 9),
}

// IsRelativeAmount reports whether input depends on the user's holdings
func IsRelativeAmount(input string) bool {
	switch normalizeAmount(input) {
	case AmountAll, AmountHalf:
		return true
	}
	return false
}

// ParseAmount turns "250", "1.5k", "2m", "3b", "all" or "half" into an amount.
// Keywords resolve against available and fail with ErrInsufficientFunds when
// nothing is available.
func ParseAmount(input string, available decimal.Decimal) (decimal.Decimal, error) {
	s := normalizeAmount(input)
	if s == "" {
		return decimal.Zero, ErrUnparsableAmount
	}

	switch s {
	case AmountAll:
		if !available.IsPositive() {
			return decimal.Zero, service.ErrInsufficientFunds
		}
		return available, nil
	case AmountHalf:
		half := available.Div(decimal.NewFromInt(2)).Truncate(2)
		if !half.IsPositive() {
			return decimal.Zero, service.ErrInsufficientFunds
		}
		return half, nil
	}

	multiplier := decimal.NewFromInt(1)
	if m, ok := amountSuffixes[s[len(s)-1]]; ok {
		multiplier = m
		s = s[:len(s)-1]
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrUnparsableAmount
	}
	if err := service.CheckAmountMagnitude(value); err != nil {
		return decimal.Zero, err
	}
	value = value.Mul(multiplier)
	if err := service.CheckAmountMagnitude(value); err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, service.ErrInvalidAmount
	}
	return value, nil
}

func normalizeAmount(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// ResolveAmount parses input, calling available only for keywords
func ResolveAmount(input string, available func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	if !IsRelativeAmount(input) {
		return ParseAmount(input, decimal.Zero)
	}
	holdings, err := available()
	if err != nil {
		return decimal.Zero, err
	}
	return ParseAmount(input, holdings)
}
