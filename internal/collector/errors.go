package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the provider returned no rows for the
	// symbol and range, e.g. a delisted or unknown ticker.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidRange means start is after end.
	ErrInvalidRange = errors.New("invalid date range")
)

// TransientFetchError wraps network and provider failures. Callers are not
// expected to retry automatically.
type TransientFetchError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("%s fetch %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

func transient(provider, symbol string, err error) error {
	return &TransientFetchError{Provider: provider, Symbol: symbol, Err: err}
}

// IsTransient reports whether err wraps a TransientFetchError.
func IsTransient(err error) bool {
	var te *TransientFetchError
	return errors.As(err, &te)
}
