// Package metrics computes the user-facing quantities derived from a fund
// state snapshot. Every function is pure: no ledger access, no side effects.
//
// All arithmetic is decimal (apd) so repeated renders never accumulate binary
// floating-point drift. A nil input stands for an unavailable ledger field and
// is treated as zero.
package metrics

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// TokensPerUnit is the fixed issuance rate: tokens granted per whole currency
// unit contributed. It mirrors the ledger's configured rate and is used for
// previews only; confirmed issuance is always read back from the ledger.
const TokensPerUnit = 1000

// DefaultTargetUnits is the funding target of the reference deployment, in
// whole currency units.
const DefaultTargetUnits = 5

// DefaultTarget returns the reference funding target as a decimal.
func DefaultTarget() *apd.Decimal {
	return apd.New(DefaultTargetUnits, 0)
}

var calcCtx = apd.BaseContext.WithPrecision(50)

var hundred = apd.New(100, 0)

// OwnershipPercent returns callerBalance / totalSupply * 100 rounded to two
// decimal places, or zero when the supply is zero or unknown. It never
// divides by zero.
func OwnershipPercent(callerBalance, totalSupply *apd.Decimal) (*apd.Decimal, error) {
	if callerBalance == nil || totalSupply == nil || totalSupply.IsZero() {
		return apd.New(0, 0), nil
	}
	res := new(apd.Decimal)
	if _, err := calcCtx.Quo(res, callerBalance, totalSupply); err != nil {
		return nil, errors.Wrap(err, "ownership ratio")
	}
	if _, err := calcCtx.Mul(res, res, hundred); err != nil {
		return nil, errors.Wrap(err, "ownership percent")
	}
	if _, err := calcCtx.Quantize(res, res, -2); err != nil {
		return nil, errors.Wrap(err, "ownership rounding")
	}
	return res, nil
}

// ExpectedIssuance previews the tokens a contribution of the given amount
// would be granted. The multiplication is a pure decimal shift, so it is
// exact for any amount.
func ExpectedIssuance(investAmount *apd.Decimal) *apd.Decimal {
	return scaleByRate(investAmount)
}

// ContributionIssuedTokens is the token volume attributable to currency
// contributions.
func ContributionIssuedTokens(totalContributed *apd.Decimal) *apd.Decimal {
	return scaleByRate(totalContributed)
}

// ManuallyIssuedTokens is the token volume issued outside contributions:
// totalSupply minus ContributionIssuedTokens. Rounding noise can push it
// slightly below zero; the value is reported as-is.
func ManuallyIssuedTokens(totalSupply, totalContributed *apd.Decimal) (*apd.Decimal, error) {
	supply := orZero(totalSupply)
	issued := ContributionIssuedTokens(totalContributed)
	res := new(apd.Decimal)
	if _, err := calcCtx.Sub(res, supply, issued); err != nil {
		return nil, errors.Wrap(err, "manually issued tokens")
	}
	return res, nil
}

// RemainingToTarget is the currency still needed to reach the funding target,
// never negative. A nil target falls back to DefaultTarget.
func RemainingToTarget(totalContributed, target *apd.Decimal) (*apd.Decimal, error) {
	if target == nil {
		target = DefaultTarget()
	}
	res := new(apd.Decimal)
	if _, err := calcCtx.Sub(res, target, orZero(totalContributed)); err != nil {
		return nil, errors.Wrap(err, "remaining to target")
	}
	if res.Sign() < 0 {
		return apd.New(0, 0), nil
	}
	return res, nil
}

// MintRemainingPreview is the token amount a "mint remaining" operation would
// issue: RemainingToTarget scaled by the issuance rate.
func MintRemainingPreview(totalContributed, target *apd.Decimal) (*apd.Decimal, error) {
	remaining, err := RemainingToTarget(totalContributed, target)
	if err != nil {
		return nil, err
	}
	return scaleByRate(remaining), nil
}

// scaleByRate multiplies by TokensPerUnit (10^3) via an exponent shift.
func scaleByRate(amount *apd.Decimal) *apd.Decimal {
	if amount == nil {
		return apd.New(0, 0)
	}
	res := new(apd.Decimal).Set(amount)
	if res.IsZero() {
		return res
	}
	res.Exponent += 3
	return res
}

func orZero(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return apd.New(0, 0)
	}
	return d
}
