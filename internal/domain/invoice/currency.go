package invoice

import "fmt"

type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	DKK Currency = "DKK"
	SEK Currency = "SEK"
	GBP Currency = "GBP"
)

// Currencies returns the closed set of supported currencies in a fixed
// order. Dispatch iterates this slice, so the order decides which
// currency's worker is spawned first on every run.
func Currencies() []Currency {
	return []Currency{EUR, USD, DKK, SEK, GBP}
}

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(s); c {
	case EUR, USD, DKK, SEK, GBP:
		return c, nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}
