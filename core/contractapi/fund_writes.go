package contractapi

import (
	"context"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/util"
)

// Invest deposits currency into the fund. The amount rides as the attached
// payment of the payable call, converted to minor units at this boundary.
func (a *Action) Invest(ctx context.Context, amount *apd.Decimal) (string, error) {
	if amount == nil || amount.Sign() <= 0 {
		return "", errors.New("invest amount must be positive")
	}
	minor, err := util.ToMinorUnit(amount)
	if err != nil {
		return "", errors.WithStack(err)
	}
	txHash, err := a.transport.Submit(ctx, "invest", minor)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return txHash, nil
}

// Withdraw moves currency out of the treasury. Operator-only on the ledger;
// the SDK's gate is advisory and the contract enforces the real check.
func (a *Action) Withdraw(ctx context.Context, amount *apd.Decimal) (string, error) {
	if amount == nil || amount.Sign() <= 0 {
		return "", errors.New("withdraw amount must be positive")
	}
	minor, err := util.ToMinorUnit(amount)
	if err != nil {
		return "", errors.WithStack(err)
	}
	txHash, err := a.transport.Submit(ctx, "withdraw", nil, minor)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return txHash, nil
}

// MintManual issues tokens to a contributor who paid outside the ledger. The
// reason string is recorded on-chain for auditing and must not be empty.
func (a *Action) MintManual(ctx context.Context, recipient util.EthereumAddress, amount *apd.Decimal, reason string) (string, error) {
	if amount == nil || amount.Sign() <= 0 {
		return "", errors.New("mint amount must be positive")
	}
	if reason == "" {
		return "", errors.New("mint reason is required")
	}
	minor, err := util.ToMinorUnit(amount)
	if err != nil {
		return "", errors.WithStack(err)
	}
	txHash, err := a.transport.Submit(ctx, "mintManual", nil, recipient.Common(), minor, reason)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return txHash, nil
}
