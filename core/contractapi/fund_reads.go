package contractapi

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"github.com/s100fund/sdk-go/core/logging"
	"github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
	"go.uber.org/zap"
)

// BalanceOf returns the fund token balance of a wallet.
func (a *Action) BalanceOf(ctx context.Context, wallet util.EthereumAddress) (*apd.Decimal, error) {
	return a.readAmount(ctx, "balanceOf", wallet.Common())
}

// TotalSupply returns the total issued fund tokens.
func (a *Action) TotalSupply(ctx context.Context) (*apd.Decimal, error) {
	return a.readAmount(ctx, "totalSupply")
}

// GetTreasuryBalance returns the currency held by the fund treasury.
func (a *Action) GetTreasuryBalance(ctx context.Context) (*apd.Decimal, error) {
	return a.readAmount(ctx, "getTreasuryBalance")
}

// TotalContributed returns the cumulative currency invested into the fund.
func (a *Action) TotalContributed(ctx context.Context) (*apd.Decimal, error) {
	return a.readAmount(ctx, "totalContributed")
}

// TokensPerUnit returns the ledger's configured issuance rate. The SDK's
// compile-time rate is preview-only; this read is the source of truth when a
// display needs the actual rate.
func (a *Action) TokensPerUnit(ctx context.Context) (*apd.Decimal, error) {
	return a.readRawInt(ctx, "tokensPerUnit")
}

// Name returns the fund token name.
func (a *Action) Name(ctx context.Context) (string, error) {
	return a.readString(ctx, "name")
}

// Symbol returns the fund token symbol.
func (a *Action) Symbol(ctx context.Context) (string, error) {
	return a.readString(ctx, "symbol")
}

// GetFundState takes a snapshot of the fund accounting. Each field is fetched
// independently: a failed read leaves that field nil and the snapshot still
// returns, so one unavailable figure never takes down the whole view. Caller
// may be nil for anonymous reads, leaving CallerBalance nil.
func (a *Action) GetFundState(ctx context.Context, caller *util.EthereumAddress) (*types.FundState, error) {
	state := &types.FundState{}

	if v, err := a.TotalSupply(ctx); err != nil {
		logging.Logger.Warn("totalSupply unavailable", zap.Error(err))
	} else {
		state.TotalSupply = v
	}

	if v, err := a.GetTreasuryBalance(ctx); err != nil {
		logging.Logger.Warn("treasury balance unavailable", zap.Error(err))
	} else {
		state.TreasuryBalance = v
	}

	if v, err := a.TotalContributed(ctx); err != nil {
		logging.Logger.Warn("totalContributed unavailable", zap.Error(err))
	} else {
		state.TotalContributed = v
	}

	if caller != nil {
		if v, err := a.BalanceOf(ctx, *caller); err != nil {
			logging.Logger.Warn("caller balance unavailable",
				zap.String("caller", caller.Address()), zap.Error(err))
		} else {
			state.CallerBalance = v
		}
	}

	return state, nil
}
