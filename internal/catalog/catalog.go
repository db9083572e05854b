// Package catalog holds the closed sets of selectable symbols and horizons.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSymbol  = errors.New("unsupported symbol")
	ErrUnsupportedHorizon = errors.New("unsupported horizon")
	ErrDuplicateSymbol    = errors.New("duplicate symbol")
)

// Years lists the selectable forecast horizons, in years.
var Years = []int{1, 2, 3, 4}

// Symbol pairs a human label with its exchange ticker.
type Symbol struct {
	Label  string `json:"label" yaml:"label"`
	Ticker string `json:"ticker" yaml:"ticker"`
}

// DefaultSymbols is the catalog shown when the config does not override it.
var DefaultSymbols = []Symbol{
	{Label: "Google", Ticker: "GOOG"},
	{Label: "Apple", Ticker: "AAPL"},
	{Label: "Microsoft", Ticker: "MSFT"},
	{Label: "GameStop", Ticker: "GME"},
}

// Catalog is an ordered, immutable set of supported symbols.
type Catalog struct {
	symbols  []Symbol
	byLabel  map[string]Symbol
	byTicker map[string]Symbol
}

// New builds a Catalog. Labels and tickers must be non-empty and unique.
func New(symbols []Symbol) (*Catalog, error) {
	c := &Catalog{
		symbols:  make([]Symbol, 0, len(symbols)),
		byLabel:  make(map[string]Symbol, len(symbols)),
		byTicker: make(map[string]Symbol, len(symbols)),
	}
	for _, s := range symbols {
		if s.Label == "" || s.Ticker == "" {
			return nil, fmt.Errorf("catalog entry %+v: label and ticker are required", s)
		}
		if _, ok := c.byLabel[s.Label]; ok {
			return nil, fmt.Errorf("%w: label %q", ErrDuplicateSymbol, s.Label)
		}
		if _, ok := c.byTicker[s.Ticker]; ok {
			return nil, fmt.Errorf("%w: ticker %q", ErrDuplicateSymbol, s.Ticker)
		}
		c.symbols = append(c.symbols, s)
		c.byLabel[s.Label] = s
		c.byTicker[s.Ticker] = s
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultSymbols)
	if err != nil {
		panic(err)
	}
	return c
}

// Symbols returns the catalog entries in display order.
func (c *Catalog) Symbols() []Symbol {
	out := make([]Symbol, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Resolve maps a label or ticker to its catalog entry. Matching is exact.
func (c *Catalog) Resolve(name string) (Symbol, error) {
	if s, ok := c.byLabel[name]; ok {
		return s, nil
	}
	if s, ok := c.byTicker[name]; ok {
		return s, nil
	}
	return Symbol{}, fmt.Errorf("%w: %q", ErrUnsupportedSymbol, name)
}

// ValidateYears rejects horizons outside Years.
func ValidateYears(years int) error {
	for _, y := range Years {
		if y == years {
			return nil
		}
	}
	return fmt.Errorf("%w: %d years (want one of %v)", ErrUnsupportedHorizon, years, Years)
}
