package token

import (
	"fmt"
	"strings"
)

// Symbols recognised by the ledger. FLP is the native currency, SFLP the
// stakeable token and ZFLP the bonus token.
const (
	SymbolFLP  = "FLP"
	SymbolSFLP = "SFLP"
	SymbolZFLP = "ZFLP"
)

// NormalizeSymbol ensures the provided token symbol matches a supported value
// and returns the canonical uppercase form.
func NormalizeSymbol(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	switch trimmed {
	case SymbolFLP, SymbolSFLP, SymbolZFLP:
		return trimmed, nil
	default:
		return "", fmt.Errorf("token: unsupported symbol %q", symbol)
	}
}
