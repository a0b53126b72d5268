package app

import (
	"github.com/shopspring/decimal"

	"siam_tours/internal/domain"
)

const DefaultEURRate = 37.6 // THB per EUR

var localeCurrency = map[domain.Locale]domain.Currency{
	domain.LocaleEN: domain.CurrencyTHB,
	domain.LocaleFR: domain.CurrencyEUR,
}

// CurrencyResolver picks the display currency and formats prices.
// Amounts are converted in decimal so that exact multiples of the rate do not
// pick up a float error and round up one unit too far.
type CurrencyResolver struct {
	rate decimal.Decimal
}

func NewCurrencyResolver(thbPerEUR float64) *CurrencyResolver {
	if thbPerEUR <= 0 {
		thbPerEUR = DefaultEURRate
	}
	return &CurrencyResolver{rate: decimal.NewFromFloat(thbPerEUR)}
}

// DefaultCurrency is the currency a locale starts with.
func DefaultCurrency(l domain.Locale) domain.Currency {
	if c, ok := localeCurrency[l]; ok {
		return c
	}
	return localeCurrency[domain.DefaultLocale]
}

// Resolve returns the persisted override when there is one, else the locale default.
func (r *CurrencyResolver) Resolve(l domain.Locale, override *domain.Currency) domain.Currency {
	if override != nil {
		if c, ok := domain.ParseCurrency(string(*override)); ok {
			return c
		}
	}
	return DefaultCurrency(l)
}

// ToEUR converts THB to whole euros, always rounding up.
func (r *CurrencyResolver) ToEUR(amountTHB float64) decimal.Decimal {
	return decimal.NewFromFloat(amountTHB).Div(r.rate).Ceil()
}

// Format renders a price in c. THB is rounded to the nearest baht. EUR uses
// amountEUR rounded to the nearest euro when the operator set one, else the
// ceiling of the conversion.
func (r *CurrencyResolver) Format(c domain.Currency, amountTHB float64, amountEUR *float64) string {
	if c != domain.CurrencyEUR {
		return decimal.NewFromFloat(amountTHB).Round(0).String() + " THB"
	}
	if amountEUR != nil {
		return decimal.NewFromFloat(*amountEUR).Round(0).String() + " €"
	}
	return r.ToEUR(amountTHB).String() + " €"
}
