package service

import (
	"context"
	"errors"

	"github.com/kylycht/apex/model"
)

// ErrorKind classifies why a fetch failed
type ErrorKind int

const (
	KindNetwork         ErrorKind = iota + 1 // transport failure or timeout
	KindInvalidResponse                      // bad status, bad JSON or error payload
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// FetchError is the single failure shape returned by a RateSource.
// Message is meant to be shown to the user as is.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

// NetworkError returns a KindNetwork FetchError
func NetworkError(msg string, cause error) *FetchError {
	return &FetchError{Kind: KindNetwork, Message: msg, Err: cause}
}

// InvalidResponseError returns a KindInvalidResponse FetchError
func InvalidResponseError(msg string, cause error) *FetchError {
	return &FetchError{Kind: KindInvalidResponse, Message: msg, Err: cause}
}

// AsFetchError normalizes any error into a FetchError,
// treating unknown errors as network failures
func AsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	return NetworkError(err.Error(), err)
}

// RateSource describes
// a provider of exchange rates
type RateSource interface {
	// FetchRates issues exactly one request for rates
	// relative to base. No caching and no retries.
	// Errors are *FetchError.
	FetchRates(ctx context.Context, base model.CurrencyCode) (model.Rates, error)
}

// RateSourceFunc adapts a function to RateSource
type RateSourceFunc func(ctx context.Context, base model.CurrencyCode) (model.Rates, error)

// FetchRates implements RateSource.
func (fn RateSourceFunc) FetchRates(ctx context.Context, base model.CurrencyCode) (model.Rates, error) {
	return fn(ctx, base)
}
