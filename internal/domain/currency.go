package domain

import "strings"

type Currency string

const (
	CurrencyTHB Currency = "THB"
	CurrencyEUR Currency = "EUR"
)

func ParseCurrency(s string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyTHB:
		return CurrencyTHB, true
	case CurrencyEUR:
		return CurrencyEUR, true
	}
	return "", false
}

func (c Currency) String() string { return string(c) }
