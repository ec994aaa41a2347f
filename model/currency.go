package model

import (
	"fmt"
	"strings"
)

// CurrencyCode is an ISO 4217 code from the closed
// set of currencies the widget can display
type CurrencyCode string

const (
	CNY CurrencyCode = "CNY" // Chinese yuan
	SGD CurrencyCode = "SGD" // Singapore dollar
	JPY CurrencyCode = "JPY" // Japanese yen
	KRW CurrencyCode = "KRW" // South Korean won
	USD CurrencyCode = "USD" // US dollar, base of every rate table
	GBP CurrencyCode = "GBP" // Pound sterling
	EUR CurrencyCode = "EUR" // Euro
	AUD CurrencyCode = "AUD" // Australian dollar
)

// BaseCurrency is the currency all rates
// in a RateTable are expressed against
const BaseCurrency = USD

// CurrencyDescriptor holds display information
// for one selectable currency
type CurrencyDescriptor struct {
	Code   CurrencyCode `json:"code"`   // Code of the currency
	Name   string       `json:"name"`   // Display name of the currency
	Symbol string       `json:"symbol"` // Display symbol of the currency
}

// Currencies lists supported currencies in display order.
// It must be treated as read-only.
var Currencies = []CurrencyDescriptor{
	{Code: CNY, Name: "人民币", Symbol: "¥"},
	{Code: SGD, Name: "新加坡元", Symbol: "S$"},
	{Code: JPY, Name: "日元", Symbol: "¥"},
	{Code: KRW, Name: "韩元", Symbol: "₩"},
	{Code: USD, Name: "美元", Symbol: "$"},
	{Code: GBP, Name: "英镑", Symbol: "£"},
	{Code: EUR, Name: "欧元", Symbol: "€"},
	{Code: AUD, Name: "澳元", Symbol: "A$"},
}

// ParseCurrencyCode returns the supported code for s,
// case-insensitively
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.Valid() {
		return "", fmt.Errorf("unsupported currency: %q", s)
	}

	return code, nil
}

// Valid reports whether c belongs to the supported set
func (c CurrencyCode) Valid() bool {
	for _, d := range Currencies {
		if d.Code == c {
			return true
		}
	}

	return false
}

func (c CurrencyCode) String() string { return string(c) }

// Descriptor returns display information for c
func Descriptor(c CurrencyCode) (CurrencyDescriptor, bool) {
	for _, d := range Currencies {
		if d.Code == c {
			return d, true
		}
	}

	return CurrencyDescriptor{}, false
}
