package handlers

import (
	"errors"
	"strconv"

	"posledger/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

// parseBalanceMinor accepts any finite decimal, including negative values;
// administrative corrections may push a machine below zero.
func parseBalanceMinor(raw string) (int64, error) {
	balance, err := money.ParseMinor(raw)
	if err != nil {
		return 0, errInvalidAmount
	}
	return balance, nil
}

func parseCashMinor(raw string) (int64, error) {
	cash, err := money.ParseMinor(raw)
	if err != nil || cash < 0 {
		return 0, errInvalidAmount
	}
	return cash, nil
}

func parseLimitOffset(rawLimit, rawOffset string) (int, int) {
	limit := 50
	offset := 0
	if rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	if rawOffset != "" {
		if parsed, err := strconv.Atoi(rawOffset); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
