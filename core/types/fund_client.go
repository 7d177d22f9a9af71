package types

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/s100fund/sdk-go/core/util"
)

type Client interface {
	// WaitForTx waits for the transaction to reach a terminal state on the ledger
	WaitForTx(ctx context.Context, txHash string, interval time.Duration) (*TxResult, error)
	// LoadActions returns the fund contract API bound to this client's transport
	LoadActions() (IFundAction, error)
	// Address of the signer used by the client; fails in read-only mode
	Address() (util.EthereumAddress, error)
	// IsOperator reports whether the signing identity matches the configured operator
	IsOperator() (bool, error)
	// Invest validates and submits a deposit, returning the pending operation
	Invest(ctx context.Context, input InvestInput) (*PendingOperation, error)
	// WithdrawTreasury validates and submits an operator treasury withdrawal
	WithdrawTreasury(ctx context.Context, input WithdrawInput) (*PendingOperation, error)
	// MintManual validates and submits an operator manual token issuance
	MintManual(ctx context.Context, input MintManualInput) (*PendingOperation, error)
	// MintRemaining issues the operator the allocation still needed to reach the target
	MintRemaining(ctx context.Context) (*PendingOperation, error)
	// Await blocks until the operation reaches a terminal state, refreshing
	// fund state after a confirmation
	Await(ctx context.Context, op *PendingOperation) error
	// FundOverview returns a fresh snapshot with all derived metrics
	FundOverview(ctx context.Context) (*FundOverview, error)
	// LastFundState returns the snapshot taken after the most recent
	// confirmed operation, nil before any refresh
	LastFundState() *FundState
}

// IFundAction is the fund contract surface the SDK consumes. Reads are
// side-effect-free; writes return the broadcast transaction hash.
type IFundAction interface {
	// BalanceOf returns the fund token balance of a wallet
	BalanceOf(ctx context.Context, wallet util.EthereumAddress) (*apd.Decimal, error)
	// TotalSupply returns the total issued fund tokens
	TotalSupply(ctx context.Context) (*apd.Decimal, error)
	// GetTreasuryBalance returns the currency held by the fund
	GetTreasuryBalance(ctx context.Context) (*apd.Decimal, error)
	// TotalContributed returns the cumulative invested currency
	TotalContributed(ctx context.Context) (*apd.Decimal, error)
	// TokensPerUnit returns the ledger's configured issuance rate
	TokensPerUnit(ctx context.Context) (*apd.Decimal, error)
	// GetFundState fetches each field independently, tolerating partial
	// availability; caller may be nil for anonymous reads
	GetFundState(ctx context.Context, caller *util.EthereumAddress) (*FundState, error)
	// Invest deposits currency into the fund
	Invest(ctx context.Context, amount *apd.Decimal) (string, error)
	// Withdraw moves currency out of the treasury
	Withdraw(ctx context.Context, amount *apd.Decimal) (string, error)
	// MintManual issues tokens to a fiat contributor
	MintManual(ctx context.Context, recipient util.EthereumAddress, amount *apd.Decimal, reason string) (string, error)
}
