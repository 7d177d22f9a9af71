package contractapi

import (
	"context"
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
)

// ## Initializations

// Action is the fund contract API. It layers typed reads and writes over a
// transport and converts every amount at the wire boundary: decimals inside
// the SDK, minor-unit integers on the ledger.
type Action struct {
	transport types.Transport
}

var _ types.IFundAction = (*Action)(nil)

type NewActionOptions struct {
	Transport types.Transport
}

var (
	// ErrLedgerUnreachable marks a read that never produced a response.
	ErrLedgerUnreachable = errors.New("ledger unreachable")
	// ErrMalformedResponse marks a read whose response could not be decoded.
	ErrMalformedResponse = errors.New("malformed ledger response")
)

// LoadAction binds the fund contract API to a transport.
func LoadAction(options NewActionOptions) (*Action, error) {
	if options.Transport == nil {
		return nil, errors.New("transport is required")
	}
	return &Action{transport: options.Transport}, nil
}

// readAmount performs a single read-only call whose first output is a
// minor-unit integer and converts it to a decimal.
func (a *Action) readAmount(ctx context.Context, method string, args ...any) (*apd.Decimal, error) {
	vals, err := a.transport.Call(ctx, method, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrLedgerUnreachable, "%s: %v", method, err)
	}
	if len(vals) == 0 {
		return nil, errors.Wrapf(ErrMalformedResponse, "%s returned no values", method)
	}
	minor, ok := vals[0].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedResponse, "%s returned %T, want *big.Int", method, vals[0])
	}
	return util.FromMinorUnit(minor), nil
}

// readRawInt performs a read-only call whose first output is a plain integer
// (not scaled to minor units, e.g. the issuance rate).
func (a *Action) readRawInt(ctx context.Context, method string) (*apd.Decimal, error) {
	vals, err := a.transport.Call(ctx, method)
	if err != nil {
		return nil, errors.Wrapf(ErrLedgerUnreachable, "%s: %v", method, err)
	}
	if len(vals) == 0 {
		return nil, errors.Wrapf(ErrMalformedResponse, "%s returned no values", method)
	}
	raw, ok := vals[0].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedResponse, "%s returned %T, want *big.Int", method, vals[0])
	}
	var coeff apd.BigInt
	coeff.SetMathBigInt(raw)
	return apd.NewWithBigInt(&coeff, 0), nil
}

// readString performs a single read-only call whose first output is a string.
func (a *Action) readString(ctx context.Context, method string) (string, error) {
	vals, err := a.transport.Call(ctx, method)
	if err != nil {
		return "", errors.Wrapf(ErrLedgerUnreachable, "%s: %v", method, err)
	}
	if len(vals) == 0 {
		return "", errors.Wrapf(ErrMalformedResponse, "%s returned no values", method)
	}
	s, ok := vals[0].(string)
	if !ok {
		return "", errors.Wrapf(ErrMalformedResponse, "%s returned %T, want string", method, vals[0])
	}
	return s, nil
}
