package fundclient

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s100fund/sdk-go/core/lifecycle"
	"github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
)

const (
	operatorHex      = "0x7d0262f9dc4f014cbbffe8c6efdb2de509856aa4"
	operatorHexMixed = "0x7D0262F9DC4F014CbbFFe8C6EFdb2de509856AA4"
)

type submission struct {
	method string
	value  *big.Int
	args   []any
}

// fakeTransport is an in-memory ledger double. Reads serve the configured
// fund fields; writes are recorded and confirmed per txResult.
type fakeTransport struct {
	mu sync.Mutex

	supply      *big.Int
	treasury    *big.Int
	contributed *big.Int
	balance     *big.Int

	sender    util.EthereumAddress
	senderErr error

	submitErr   error
	txResult    *types.TxResult
	submissions []submission
}

func (f *fakeTransport) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch method {
	case "totalSupply":
		return []any{new(big.Int).Set(f.supply)}, nil
	case "getTreasuryBalance":
		return []any{new(big.Int).Set(f.treasury)}, nil
	case "totalContributed":
		return []any{new(big.Int).Set(f.contributed)}, nil
	case "balanceOf":
		return []any{new(big.Int).Set(f.balance)}, nil
	}
	return nil, errors.Errorf("unexpected method %s", method)
}

func (f *fakeTransport) Submit(ctx context.Context, method string, value *big.Int, args ...any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, submission{method: method, value: value, args: args})
	return fmt.Sprintf("0x%064d", len(f.submissions)), nil
}

func (f *fakeTransport) WaitTx(ctx context.Context, txHash string, interval time.Duration) (*types.TxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txResult == nil {
		return &types.TxResult{Success: true}, nil
	}
	return f.txResult, nil
}

func (f *fakeTransport) ChainID() *big.Int {
	return big.NewInt(11155111)
}

func (f *fakeTransport) Sender() (util.EthereumAddress, error) {
	if f.senderErr != nil {
		return util.EthereumAddress{}, f.senderErr
	}
	return f.sender, nil
}

func (f *fakeTransport) submissionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

func (f *fakeTransport) setTreasury(minor *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treasury = minor
}

func dec(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	require.NoError(t, err)
	return d
}

func minorUnits(t *testing.T, s string) *big.Int {
	t.Helper()
	m, err := util.ToMinorUnit(dec(t, s))
	require.NoError(t, err)
	return m
}

func newFakeTransport(t *testing.T) *fakeTransport {
	t.Helper()
	return &fakeTransport{
		supply:      minorUnits(t, "5000"),
		treasury:    minorUnits(t, "3"),
		contributed: minorUnits(t, "3"),
		balance:     minorUnits(t, "2000"),
		sender:      util.Unsafe_NewEthereumAddressFromString(operatorHex),
	}
}

func newTestClient(t *testing.T, transport *fakeTransport, options ...Option) *Client {
	t.Helper()
	options = append([]Option{
		WithTransport(transport),
		WithOperator(util.Unsafe_NewEthereumAddressFromString(operatorHexMixed)),
		WithPollInterval(time.Millisecond),
	}, options...)
	client, err := NewClient(context.Background(), "", options...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresTransportOrContract(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
}

func TestIsOperator_CaseInsensitiveIdentity(t *testing.T) {
	// operator configured in mixed case, wallet reports lowercase
	client := newTestClient(t, newFakeTransport(t))

	ok, err := client.IsOperator()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsOperator_NoOperatorConfigured(t *testing.T) {
	transport := newFakeTransport(t)
	client, err := NewClient(context.Background(), "", WithTransport(transport))
	require.NoError(t, err)

	ok, err := client.IsOperator()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvest_InvalidAmountNeverSubmits(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	_, err := client.Invest(context.Background(), types.InvestInput{Amount: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidAmount))

	assert.Equal(t, 0, transport.submissionCount(), "no network call on validation failure")
	assert.Equal(t, 0, client.Tracker().PendingCount(), "no pending operation on validation failure")
}

func TestInvest_SubmitsAndConfirms(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	op, err := client.Invest(context.Background(), types.InvestInput{Amount: "1.5"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, op.Status())

	require.NoError(t, client.Await(context.Background(), op))
	assert.Equal(t, types.StatusConfirmed, op.Status())

	require.Equal(t, 1, transport.submissionCount())
	sub := transport.submissions[0]
	assert.Equal(t, "invest", sub.method)
	assert.Equal(t, 0, sub.value.Cmp(minorUnits(t, "1.5")))
}

func TestInvest_SigningFailureIsSynchronous(t *testing.T) {
	transport := newFakeTransport(t)
	transport.submitErr = errors.New("user rejected signing")
	client := newTestClient(t, transport)

	_, err := client.Invest(context.Background(), types.InvestInput{Amount: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmission))
	assert.Equal(t, 0, client.Tracker().PendingCount(), "no lifecycle object for a rejected signing")
}

func TestWithdraw_PendingBlocksDuplicateAndConfirmRefreshes(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	op, err := client.WithdrawTreasury(context.Background(), types.WithdrawInput{Amount: "1"})
	require.NoError(t, err)
	assert.True(t, client.Tracker().InFlight(types.OperationWithdraw))

	// a second trigger of the same control while pending is refused
	_, err = client.WithdrawTreasury(context.Background(), types.WithdrawInput{Amount: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lifecycle.ErrOperationPending))
	assert.Equal(t, 1, transport.submissionCount())

	// ledger confirms; the refreshed snapshot carries the new treasury balance
	transport.setTreasury(minorUnits(t, "2"))
	require.NoError(t, client.Await(context.Background(), op))
	assert.Equal(t, types.StatusConfirmed, op.Status())

	state := client.LastFundState()
	require.NotNil(t, state)
	require.NotNil(t, state.TreasuryBalance)
	assert.Equal(t, 0, state.TreasuryBalance.Cmp(dec(t, "2")))

	// terminal state re-enables the control
	assert.False(t, client.Tracker().InFlight(types.OperationWithdraw))
}

func TestWithdraw_NonOperatorRefused(t *testing.T) {
	transport := newFakeTransport(t)
	transport.sender = util.Unsafe_NewEthereumAddressFromString("0x1234567890123456789012345678901234567890")
	client := newTestClient(t, transport)

	_, err := client.WithdrawTreasury(context.Background(), types.WithdrawInput{Amount: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotOperator))
	assert.Equal(t, 0, transport.submissionCount())
}

func TestMintManual_LedgerRejectionFailsWithoutRefresh(t *testing.T) {
	transport := newFakeTransport(t)
	transport.txResult = &types.TxResult{Success: false, Reason: "unauthorized caller"}
	client := newTestClient(t, transport)

	op, err := client.MintManual(context.Background(), types.MintManualInput{
		Recipient: "0x1234567890123456789012345678901234567890",
		Amount:    "1000",
		Reason:    "Fiat payment - $2000 from John",
	})
	require.NoError(t, err, "a well-formed intent is accepted by the signer")

	require.NoError(t, client.Await(context.Background(), op))
	assert.Equal(t, types.StatusFailed, op.Status())
	assert.Equal(t, "unauthorized caller", op.FailReason())
	assert.Nil(t, client.LastFundState(), "a failed operation must not trigger a refresh")
}

func TestMintManual_MissingFieldNeverSubmits(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	_, err := client.MintManual(context.Background(), types.MintManualInput{
		Recipient: "0x1234567890123456789012345678901234567890",
		Amount:    "1000",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingField))
	assert.Equal(t, 0, transport.submissionCount())
}

func TestMintRemaining_MintsPreviewToOperator(t *testing.T) {
	// contributed 3 of 5 units -> 2 units remaining -> 2000 tokens
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	op, err := client.MintRemaining(context.Background())
	require.NoError(t, err)
	require.NoError(t, client.Await(context.Background(), op))

	require.Equal(t, 1, transport.submissionCount())
	sub := transport.submissions[0]
	assert.Equal(t, "mintManual", sub.method)
	require.Len(t, sub.args, 3)
	assert.Equal(t, transport.sender.Common(), sub.args[0])
	assert.Equal(t, 0, sub.args[1].(*big.Int).Cmp(minorUnits(t, "2000")))
	assert.Equal(t, mintRemainingReason, sub.args[2])
}

func TestMintRemaining_TargetReached(t *testing.T) {
	transport := newFakeTransport(t)
	transport.contributed = minorUnits(t, "5")
	client := newTestClient(t, transport)

	_, err := client.MintRemaining(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTargetReached))
	assert.Equal(t, 0, transport.submissionCount())
}

func TestFundOverview_ComputesAllMetrics(t *testing.T) {
	// supply 5000, contributed 3 of 5, caller holds 2000
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	overview, err := client.FundOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "40.00", overview.OwnershipPercent.Text('f'))
	assert.Equal(t, 0, overview.ContributionIssued.Cmp(dec(t, "3000")))
	assert.Equal(t, 0, overview.ManuallyIssued.Cmp(dec(t, "2000")))
	assert.Equal(t, 0, overview.RemainingToTarget.Cmp(dec(t, "2")))
	assert.Equal(t, 0, overview.MintRemainingPreview.Cmp(dec(t, "2000")))
	require.NotNil(t, overview.State.TreasuryBalance)
	assert.Equal(t, 0, overview.State.TreasuryBalance.Cmp(dec(t, "3")))
}

func TestHandleInvestmentEvent_TriggersRefresh(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	require.Nil(t, client.LastFundState())
	err := client.HandleInvestmentEvent(context.Background(), types.InvestmentEvent{
		Investor:     transport.sender,
		Amount:       dec(t, "2"),
		TokensIssued: dec(t, "2000"),
	})
	require.NoError(t, err)
	assert.NotNil(t, client.LastFundState())
}

func TestIndependentKindsMayBePendingConcurrently(t *testing.T) {
	transport := newFakeTransport(t)
	client := newTestClient(t, transport)

	withdraw, err := client.WithdrawTreasury(context.Background(), types.WithdrawInput{Amount: "1"})
	require.NoError(t, err)
	mint, err := client.MintManual(context.Background(), types.MintManualInput{
		Recipient: "0x1234567890123456789012345678901234567890",
		Amount:    "500",
		Reason:    "fiat",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, client.Tracker().PendingCount())
	require.NoError(t, client.Await(context.Background(), withdraw))
	require.NoError(t, client.Await(context.Background(), mint))
	assert.Equal(t, 0, client.Tracker().PendingCount())
}
