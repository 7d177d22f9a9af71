package types

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/s100fund/sdk-go/core/util"
)

// FundState is an immutable snapshot of the ledger's fund accounting. It is a
// read-through view: it is never mutated locally and is refreshed by fetching
// a new snapshot after a confirmed operation.
//
// A nil field means the value was unavailable when the snapshot was taken
// (ledger unreachable or malformed response for that read). Consumers treat
// nil as zero/absent rather than failing.
type FundState struct {
	// TotalSupply is the total amount of fund tokens issued.
	TotalSupply *apd.Decimal
	// TreasuryBalance is the currency held by the fund, available for the
	// operator to withdraw.
	TreasuryBalance *apd.Decimal
	// TotalContributed is the cumulative currency deposited by investors.
	TotalContributed *apd.Decimal
	// CallerBalance is the fund token balance of the current identity. Nil
	// when no identity is connected.
	CallerBalance *apd.Decimal
}

// InvestmentEvent is the ledger's investment-completed notification. The SDK
// does not act on it beyond offering it as an optional refresh trigger.
type InvestmentEvent struct {
	Investor     util.EthereumAddress
	Amount       *apd.Decimal
	TokensIssued *apd.Decimal
}

// FundOverview bundles a fund state snapshot with every derived metric the
// dashboards display.
type FundOverview struct {
	State FundState

	// OwnershipPercent is the caller's share of total supply, 2 decimal
	// places, zero when supply is zero or unknown.
	OwnershipPercent *apd.Decimal
	// ContributionIssued is the token volume attributable to currency
	// contributions.
	ContributionIssued *apd.Decimal
	// ManuallyIssued is the token volume issued outside contributions
	// (fiat investors). May carry rounding noise below zero.
	ManuallyIssued *apd.Decimal
	// RemainingToTarget is the currency still needed to reach the funding
	// target, clamped at zero.
	RemainingToTarget *apd.Decimal
	// MintRemainingPreview is the token amount a "mint remaining" operation
	// would issue for RemainingToTarget.
	MintRemainingPreview *apd.Decimal
	// Target is the configured funding target.
	Target *apd.Decimal
}
