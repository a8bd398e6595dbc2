package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxMoney is the first value that no longer fits a NUMERIC(14,2) column
var MaxMoney = decimal.New(1, 12)

// MoneyPlaces is the number of decimal places stored for money columns
const MoneyPlaces = 2

// CheckMoney rejects amounts the money columns cannot hold exactly
func CheckMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyPlaces)) {
		return NewValidationError(field, fmt.Sprintf("must have at most %d decimal places", MoneyPlaces))
	}
	if d.Abs().GreaterThanOrEqual(MaxMoney) {
		return NewValidationError(field, "must be less than "+MaxMoney.String())
	}
	return nil
}
