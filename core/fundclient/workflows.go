package fundclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/gate"
	"github.com/s100fund/sdk-go/core/lifecycle"
	"github.com/s100fund/sdk-go/core/metrics"
	clientType "github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
	"go.uber.org/zap"
)

// IsOperator reports whether the signing identity matches the configured
// operator. False when no operator is configured.
func (c *Client) IsOperator() (bool, error) {
	if c.operator == nil {
		return false, nil
	}
	sender, err := c.Address()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return gate.IsOperator(sender, *c.operator), nil
}

func (c *Client) requireOperator() error {
	ok, err := c.IsOperator()
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithStack(ErrNotOperator)
	}
	return nil
}

// submit runs a validated intent through the duplicate gate, broadcasts it
// and registers the pending operation. A signing or connector failure
// surfaces as ErrSubmission with no operation created.
func (c *Client) submit(kind clientType.OperationKind, send func(actions clientType.IFundAction) (string, error)) (*clientType.PendingOperation, error) {
	if c.tracker.InFlight(kind) {
		return nil, errors.Wrapf(lifecycle.ErrOperationPending, "%s", kind)
	}
	actions, err := c.LoadActions()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	txHash, err := send(actions)
	if err != nil {
		return nil, errors.Wrapf(ErrSubmission, "%s: %v", kind, err)
	}
	op, err := c.tracker.Begin(kind, txHash)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.logger.Info("operation submitted",
		zap.String("kind", string(kind)), zap.String("txHash", txHash))
	return op, nil
}

// Invest validates and submits a currency deposit.
func (c *Client) Invest(ctx context.Context, input clientType.InvestInput) (*clientType.PendingOperation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	amount, err := input.ParsedAmount()
	if err != nil {
		return nil, err
	}
	return c.submit(clientType.OperationInvest, func(actions clientType.IFundAction) (string, error) {
		return actions.Invest(ctx, amount)
	})
}

// WithdrawTreasury validates and submits an operator treasury withdrawal.
func (c *Client) WithdrawTreasury(ctx context.Context, input clientType.WithdrawInput) (*clientType.PendingOperation, error) {
	if err := c.requireOperator(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	amount, err := input.ParsedAmount()
	if err != nil {
		return nil, err
	}
	return c.submit(clientType.OperationWithdraw, func(actions clientType.IFundAction) (string, error) {
		return actions.Withdraw(ctx, amount)
	})
}

// MintManual validates and submits a manual token issuance for a fiat
// contributor.
func (c *Client) MintManual(ctx context.Context, input clientType.MintManualInput) (*clientType.PendingOperation, error) {
	if err := c.requireOperator(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	recipient, err := input.ParsedRecipient()
	if err != nil {
		return nil, err
	}
	amount, err := input.ParsedAmount()
	if err != nil {
		return nil, err
	}
	return c.submit(clientType.OperationMintManual, func(actions clientType.IFundAction) (string, error) {
		return actions.MintManual(ctx, recipient, amount, input.Reason)
	})
}

// MintRemaining issues the operator the token allocation still needed to
// reach the funding target, using the current on-ledger contribution total.
func (c *Client) MintRemaining(ctx context.Context) (*clientType.PendingOperation, error) {
	if err := c.requireOperator(); err != nil {
		return nil, err
	}
	actions, err := c.LoadActions()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	contributed, err := actions.TotalContributed(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read contributions")
	}
	tokens, err := metrics.MintRemainingPreview(contributed, c.target)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if tokens.IsZero() {
		return nil, errors.WithStack(ErrTargetReached)
	}
	self, err := c.Address()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c.submit(clientType.OperationMintManual, func(actions clientType.IFundAction) (string, error) {
		return actions.MintManual(ctx, self, tokens, mintRemainingReason)
	})
}

// Await blocks until the operation reaches its terminal state. A confirmed
// operation refreshes the cached fund state before Await returns.
func (c *Client) Await(ctx context.Context, op *clientType.PendingOperation) error {
	return c.tracker.Watch(ctx, op)
}

// FundOverview returns a fresh snapshot with every derived metric computed.
func (c *Client) FundOverview(ctx context.Context) (*clientType.FundOverview, error) {
	actions, err := c.LoadActions()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var caller *util.EthereumAddress
	if sender, err := c.Address(); err == nil {
		caller = &sender
	}

	state, err := actions.GetFundState(ctx, caller)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ownership, err := metrics.OwnershipPercent(state.CallerBalance, state.TotalSupply)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	manual, err := metrics.ManuallyIssuedTokens(state.TotalSupply, state.TotalContributed)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	remaining, err := metrics.RemainingToTarget(state.TotalContributed, c.target)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	preview, err := metrics.MintRemainingPreview(state.TotalContributed, c.target)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &clientType.FundOverview{
		State:                *state,
		OwnershipPercent:     ownership,
		ContributionIssued:   metrics.ContributionIssuedTokens(state.TotalContributed),
		ManuallyIssued:       manual,
		RemainingToTarget:    remaining,
		MintRemainingPreview: preview,
		Target:               c.target,
	}, nil
}

// LastFundState returns the snapshot taken after the most recent confirmed
// operation, nil before any refresh.
func (c *Client) LastFundState() *clientType.FundState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.lastState
}

// refreshFundState is the tracker's post-confirmation hook: invalidate the
// previous snapshot by fetching a new one.
func (c *Client) refreshFundState(ctx context.Context) error {
	actions, err := c.LoadActions()
	if err != nil {
		return errors.WithStack(err)
	}

	var caller *util.EthereumAddress
	if sender, err := c.Address(); err == nil {
		caller = &sender
	}

	state, err := actions.GetFundState(ctx, caller)
	if err != nil {
		return errors.WithStack(err)
	}

	c.stateMu.Lock()
	c.lastState = state
	c.stateMu.Unlock()

	c.logger.Info("fund state refreshed after confirmation")
	return nil
}

// HandleInvestmentEvent is an optional hook for hosts subscribed to ledger
// logs: an investment-completed notification triggers a state refresh.
func (c *Client) HandleInvestmentEvent(ctx context.Context, ev clientType.InvestmentEvent) error {
	c.logger.Info("investment observed",
		zap.String("investor", ev.Investor.Address()),
		zap.String("amount", ev.Amount.Text('f')),
		zap.String("tokens", ev.TokensIssued.Text('f')))
	return c.refreshFundState(ctx)
}
