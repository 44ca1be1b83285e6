package invoice

import "github.com/shopspring/decimal"

// Money is an immutable amount in a single currency.
type Money struct {
	Value    decimal.Decimal
	Currency Currency
}

func NewMoney(value decimal.Decimal, currency Currency) Money {
	return Money{Value: value, Currency: currency}
}

func (m Money) String() string {
	return m.Value.String() + " " + string(m.Currency)
}
