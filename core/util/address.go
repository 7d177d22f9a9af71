package util

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/logging"
	"go.uber.org/zap"
)

// EthereumAddress is a normalized wallet identity. The ledger and wallet
// connectors hand us hex addresses in mixed case, so the raw string is never
// stored; comparisons always go through the canonical 20-byte form.
type EthereumAddress struct {
	addr common.Address
}

// NewEthereumAddressFromString parses a 0x-prefixed hex address, accepting any
// letter casing.
func NewEthereumAddressFromString(s string) (EthereumAddress, error) {
	if !common.IsHexAddress(s) {
		return EthereumAddress{}, errors.Errorf("invalid ethereum address: %s", s)
	}
	return EthereumAddress{addr: common.HexToAddress(s)}, nil
}

// Unsafe_NewEthereumAddressFromString is for hardcoded addresses in examples
// and tests. It panics on malformed input.
func Unsafe_NewEthereumAddressFromString(s string) EthereumAddress {
	addr, err := NewEthereumAddressFromString(s)
	if err != nil {
		logging.Logger.Panic("invalid hardcoded address", zap.Error(err))
	}
	return addr
}

// NewEthereumAddressFromBytes builds an address from its 20-byte form.
func NewEthereumAddressFromBytes(b []byte) (EthereumAddress, error) {
	if len(b) != common.AddressLength {
		return EthereumAddress{}, errors.Errorf("invalid address length: %d", len(b))
	}
	return EthereumAddress{addr: common.BytesToAddress(b)}, nil
}

// Address returns the lowercase 0x-prefixed hex representation.
func (a EthereumAddress) Address() string {
	return strings.ToLower(a.addr.Hex())
}

// Bytes returns the 20-byte form.
func (a EthereumAddress) Bytes() []byte {
	return a.addr.Bytes()
}

// Common returns the go-ethereum address for ABI argument packing.
func (a EthereumAddress) Common() common.Address {
	return a.addr
}

// Equal reports whether two addresses refer to the same account, regardless of
// the casing they were parsed from.
func (a EthereumAddress) Equal(other EthereumAddress) bool {
	return a.addr == other.addr
}

func (a EthereumAddress) String() string {
	return a.Address()
}
