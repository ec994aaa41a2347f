// Package conversion holds the pure arithmetic behind the widget:
// converting an amount between two currencies through a rate table
// and formatting the result for display.
package conversion

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/kylycht/apex/model"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimals shown for converted amounts
const Precision = 4

// Placeholder is displayed instead of a unit rate that cannot be computed
const Placeholder = "—"

var (
	// ErrMissingRate is returned when a selected currency has no usable rate.
	ErrMissingRate = errors.New("conversion: missing rate")
	// ErrParse is returned for empty or non-numeric input.
	ErrParse = errors.New("conversion: amount is not a number")
)

// Forward converts amountA into currency B.
// ok is false when either rate is unusable.
func Forward(amountA, rateA, rateB float64) (float64, bool) {
	if !validRate(rateA) || !validRate(rateB) {
		return 0, false
	}

	return amountA / rateA * rateB, true
}

// Backward converts amountB into currency A.
// ok is false when either rate is unusable.
func Backward(amountB, rateA, rateB float64) (float64, bool) {
	if !validRate(rateA) || !validRate(rateB) {
		return 0, false
	}

	return amountB / rateB * rateA, true
}

// exactDigits is enough fractional digits to print any float64 exactly
const exactDigits = 1074

// Format renders v with Precision decimals, e.g. 7.1 -> "7.1000".
// Rounding is half away from zero on the exact binary value of v,
// so 2.00025 (stored as 2.000249999...) renders as "2.0002".
// Non-finite values render as "".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}

	exact := new(big.Float).SetFloat64(v).Text('f', exactDigits)
	return decimal.RequireFromString(exact).Round(Precision).StringFixed(Precision)
}

// ParseAmount parses raw field text
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrParse
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrParse
	}

	return v, nil
}

// Pair looks up the rates of a and b in table
func Pair(table model.RateTable, a, b model.CurrencyCode) (rateA, rateB float64, err error) {
	rateA, okA := table.Rate(a)
	rateB, okB := table.Rate(b)
	if !okA || !okB || !validRate(rateA) || !validRate(rateB) {
		return 0, 0, ErrMissingRate
	}

	return rateA, rateB, nil
}

// ConvertForward derives the B field text from the A field text.
// The result is "" when amountA does not parse.
func ConvertForward(table model.RateTable, a, b model.CurrencyCode, amountA string) (string, error) {
	v, err := ParseAmount(amountA)
	if err != nil {
		return "", err
	}

	rateA, rateB, err := Pair(table, a, b)
	if err != nil {
		return "", err
	}

	out, _ := Forward(v, rateA, rateB)
	return Format(out), nil
}

// ConvertBackward derives the A field text from the B field text.
// The result is "" when amountB does not parse.
func ConvertBackward(table model.RateTable, a, b model.CurrencyCode, amountB string) (string, error) {
	v, err := ParseAmount(amountB)
	if err != nil {
		return "", err
	}

	rateA, rateB, err := Pair(table, a, b)
	if err != nil {
		return "", err
	}

	out, _ := Backward(v, rateA, rateB)
	return Format(out), nil
}

// UnitRate returns how many b one unit of a buys
func UnitRate(table model.RateTable, a, b model.CurrencyCode) (float64, bool) {
	rateA, rateB, err := Pair(table, a, b)
	if err != nil {
		return 0, false
	}

	return rateB / rateA, true
}

// FormatUnitRate renders UnitRate, or Placeholder when it is undefined
func FormatUnitRate(table model.RateTable, a, b model.CurrencyCode) string {
	r, ok := UnitRate(table, a, b)
	if !ok {
		return Placeholder
	}

	return Format(r)
}

// Swap exchanges both currencies and both amounts
func Swap(s model.ConversionState) model.ConversionState {
	return model.ConversionState{
		AmountA:   s.AmountB,
		AmountB:   s.AmountA,
		CurrencyA: s.CurrencyB,
		CurrencyB: s.CurrencyA,
	}
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}
