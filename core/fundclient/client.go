package fundclient

import (
	"context"
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/contractapi"
	"github.com/s100fund/sdk-go/core/lifecycle"
	"github.com/s100fund/sdk-go/core/metrics"
	clientType "github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
	"go.uber.org/zap"
)

var (
	// ErrSubmission marks a mutating call the signing layer or connector
	// refused. No pending operation exists; re-triggering the action is safe.
	ErrSubmission = errors.New("submission failed")
	// ErrNotOperator is returned when an operator-only action is attempted
	// by another identity. Advisory: the ledger performs the real check.
	ErrNotOperator = errors.New("caller is not the fund operator")
	// ErrTargetReached is returned by MintRemaining when contributions
	// already cover the funding target.
	ErrTargetReached = errors.New("funding target already reached")
)

// mintRemainingReason is the audit note recorded when the operator mints
// their remaining allocation.
const mintRemainingReason = "Remaining founder allocation to reach target"

type Client struct {
	Transport clientType.Transport `validate:"required"`

	contractAddr *util.EthereumAddress
	signerKey    *ecdsa.PrivateKey
	operator     *util.EthereumAddress
	target       *apd.Decimal
	interval     time.Duration
	tracker      *lifecycle.Tracker
	logger       *zap.Logger

	stateMu   sync.Mutex
	lastState *clientType.FundState
}

var _ clientType.Client = (*Client)(nil)

type Option func(*Client)

// NewClient connects to the fund ledger at the given RPC provider. Pass
// WithContract for the default RPC transport, or WithTransport to supply a
// custom one (the provider string is ignored in that case).
func NewClient(ctx context.Context, provider string, options ...Option) (*Client, error) {
	c := &Client{interval: lifecycle.DefaultPollInterval}
	for _, option := range options {
		option(c)
	}

	if c.Transport == nil {
		if c.contractAddr == nil {
			return nil, errors.New("either WithTransport or WithContract is required")
		}
		var rpcOptions []RPCOption
		if c.signerKey != nil {
			rpcOptions = append(rpcOptions, WithSignerKey(c.signerKey))
		}
		transport, err := NewRPCTransport(ctx, provider, *c.contractAddr, rpcOptions...)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		c.Transport = transport
	}

	if c.target == nil {
		c.target = metrics.DefaultTarget()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.tracker = lifecycle.NewTracker(c.Transport,
		lifecycle.WithPollInterval(c.interval),
		lifecycle.WithRefreshHook(c.refreshFundState),
	)

	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

func (c *Client) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// WithTransport supplies a custom ledger transport.
func WithTransport(transport clientType.Transport) Option {
	return func(c *Client) {
		c.Transport = transport
	}
}

// WithContract sets the fund contract address for the default RPC transport.
func WithContract(contract util.EthereumAddress) Option {
	return func(c *Client) {
		c.contractAddr = &contract
	}
}

// WithSigner attaches the signing key. Without it the client is read-only.
func WithSigner(key *ecdsa.PrivateKey) Option {
	return func(c *Client) {
		c.signerKey = key
	}
}

// WithOperator configures the operator identity that gates treasury
// withdrawal and manual minting.
func WithOperator(operator util.EthereumAddress) Option {
	return func(c *Client) {
		c.operator = &operator
	}
}

// WithTarget overrides the funding target (whole currency units).
func WithTarget(target *apd.Decimal) Option {
	return func(c *Client) {
		c.target = target
	}
}

// WithPollInterval overrides the confirmation polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.interval = interval
	}
}

// WithLogger attaches a logger for client-level events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WaitForTx blocks until the transaction reaches a terminal ledger state.
func (c *Client) WaitForTx(ctx context.Context, txHash string, interval time.Duration) (*clientType.TxResult, error) {
	return c.Transport.WaitTx(ctx, txHash, interval)
}

// LoadActions returns the fund contract API bound to this client's transport.
func (c *Client) LoadActions() (clientType.IFundAction, error) {
	return contractapi.LoadAction(contractapi.NewActionOptions{
		Transport: c.Transport,
	})
}

// Address returns the signing identity. It fails for read-only clients.
func (c *Client) Address() (util.EthereumAddress, error) {
	return c.Transport.Sender()
}

// Tracker exposes the lifecycle tracker, e.g. for UI code that needs to
// disable a control while its operation kind is in flight.
func (c *Client) Tracker() *lifecycle.Tracker {
	return c.tracker
}

// Target returns the configured funding target.
func (c *Client) Target() *apd.Decimal {
	return c.target
}
