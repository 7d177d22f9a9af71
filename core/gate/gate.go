// Package gate decides whether the connected identity may see the
// operator-only surface (treasury withdrawal, manual minting).
//
// This is a UI-level gate: the ledger contract performs its own access
// control and remains the authority on whether a call actually succeeds.
package gate

import (
	"strings"

	"github.com/s100fund/sdk-go/core/util"
)

// IsOperator reports whether caller is the configured operator identity.
func IsOperator(caller, operator util.EthereumAddress) bool {
	return caller.Equal(operator)
}

// IsOperatorHex compares raw hex identities as supplied by a wallet
// connector. Hex addresses arrive in mixed case, so the comparison is
// case-insensitive.
func IsOperatorHex(caller, operator string) bool {
	if caller == "" || operator == "" {
		return false
	}
	return strings.EqualFold(caller, operator)
}
