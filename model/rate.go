package model

import (
	"math"
	"time"
)

// RateTable maps a currency code to its rate against BaseCurrency.
// Codes are upstream codes, a superset of CurrencyCode.
// Tables are replaced as a whole on every fetch and never merged.
type RateTable map[string]float64

// NewRateTable copies raw into a RateTable, dropping
// entries that are not positive finite numbers
func NewRateTable(raw map[string]float64) RateTable {
	t := make(RateTable, len(raw))
	for code, rate := range raw {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		t[code] = rate
	}

	return t
}

// Rate returns the rate of c and whether it is usable
func (t RateTable) Rate(c CurrencyCode) (float64, bool) {
	rate, ok := t[string(c)]
	if !ok || rate <= 0 {
		return 0, false
	}

	return rate, true
}

// Rates holds a rate table together with
// the provider's last update time
type Rates struct {
	Table     RateTable // Rates relative to BaseCurrency
	UpdatedAt time.Time // Provider supplied update time
}

// Phase enumerates the states of a rate fetch
type Phase int

const (
	Loading Phase = iota // Fetch in flight
	Ready                // Rates available
	Failed               // Fetch failed, no rates
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchStatus is the tagged variant Loading | Ready(UpdatedAt) | Failed(Reason)
type FetchStatus struct {
	Phase     Phase
	UpdatedAt time.Time // set when Phase == Ready
	Reason    string    // set when Phase == Failed
}

// ConversionState holds both widget fields.
// An empty amount means the field is cleared.
type ConversionState struct {
	AmountA   string       `json:"amount_a"`
	AmountB   string       `json:"amount_b"`
	CurrencyA CurrencyCode `json:"currency_a"`
	CurrencyB CurrencyCode `json:"currency_b"`
}

// DefaultConversionState is the state of a freshly mounted widget
func DefaultConversionState() ConversionState {
	return ConversionState{
		AmountA:   "1",
		AmountB:   "",
		CurrencyA: USD,
		CurrencyB: CNY,
	}
}
