package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds on what a cart, favourites list or order may hold. Amounts and
// quantities must fit the order journal's NUMERIC(12,2) and INTEGER columns.
const (
	MaxQuantity      = 999
	MaxCartItems     = 50
	MaxFavorites     = 100
	MaxAmountDecimal = 2
)

// MaxAmount is the exclusive upper bound of any price or total.
var MaxAmount = decimal.New(1, 10)

// CheckAmount rejects amounts that are not positive, carry more than two
// decimal places or reach MaxAmount.
func CheckAmount(field string, d decimal.Decimal) error {
	switch {
	case !d.IsPositive():
		return NewDomainError(ErrCodeInvalidPrice, fmt.Sprintf("%s must be greater than zero", field))
	case !d.Equal(d.Round(MaxAmountDecimal)):
		return NewDomainError(ErrCodeInvalidPrice, fmt.Sprintf("%s must have at most %d decimal places", field, MaxAmountDecimal))
	case d.GreaterThanOrEqual(MaxAmount):
		return NewDomainError(ErrCodeInvalidPrice, fmt.Sprintf("%s must be less than %s", field, MaxAmount))
	}
	return nil
}

// CheckQuantity rejects quantities outside 1..MaxQuantity.
func CheckQuantity(field string, q int) error {
	switch {
	case q < 1:
		return NewDomainError(ErrCodeInvalidQuantity, fmt.Sprintf("%s must be greater than zero", field))
	case q > MaxQuantity:
		return NewDomainError(ErrCodeInvalidQuantity, fmt.Sprintf("%s must be at most %d", field, MaxQuantity))
	}
	return nil
}
