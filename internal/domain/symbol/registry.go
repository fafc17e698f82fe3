package symbol

import (
	"fmt"
	"strings"

	"github.com/xyVar/KLDAFinTech/pkg/errors"
)

// AssetClass groups symbols sharing a threshold set.
type AssetClass string

const (
	// ClassEquity covers listed stocks.
	ClassEquity AssetClass = "equity"
	// ClassCommodity covers spot commodities.
	ClassCommodity AssetClass = "commodity"
	// ClassIndex covers index CFDs.
	ClassIndex AssetClass = "index"
)

// Symbol is a canonical tradable instrument.
type Symbol struct {
	Key   string
	Class AssetClass
}

// Registry is a fixed mapping between external feed identifiers and canonical
// symbols, built once at startup. Lookups are read-only and safe for
// concurrent use.
type Registry struct {
	byExternal  map[string]Symbol
	byCanonical map[string]Symbol
	symbols     []Symbol
}

// NewRegistry builds a registry from universe entries formatted as
// "EXTERNAL=CANONICAL:class".
func NewRegistry(entries []string) (*Registry, error) {
	r := &Registry{
		byExternal:  make(map[string]Symbol, len(entries)),
		byCanonical: make(map[string]Symbol, len(entries)),
	}

	for _, entry := range entries {
		external, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid universe entry %q, want EXTERNAL=CANONICAL:class", entry)
		}
		canonical, class, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("invalid universe entry %q, missing asset class", entry)
		}

		sym := Symbol{Key: canonical, Class: AssetClass(class)}
		switch sym.Class {
		case ClassEquity, ClassCommodity, ClassIndex:
		default:
			return nil, fmt.Errorf("unknown asset class %q in universe entry %q", class, entry)
		}

		r.byExternal[external] = sym
		if _, exists := r.byCanonical[canonical]; !exists {
			r.byCanonical[canonical] = sym
			r.symbols = append(r.symbols, sym)
		}
	}

	return r, nil
}

// Normalize maps an external feed identifier to its canonical symbol.
// Unknown identifiers are rejected with a validation error.
func (r *Registry) Normalize(externalID string) (Symbol, error) {
	sym, ok := r.byExternal[externalID]
	if !ok {
		return Symbol{}, errors.NewCodedError(errors.ValidationError,
			fmt.Sprintf("unknown symbol: %s", externalID))
	}
	return sym, nil
}

// Lookup returns a symbol by canonical key.
func (r *Registry) Lookup(canonical string) (Symbol, bool) {
	sym, ok := r.byCanonical[canonical]
	return sym, ok
}

// Symbols returns the canonical trading universe.
func (r *Registry) Symbols() []Symbol {
	return r.symbols
}
