// Package lifecycle tracks submitted ledger operations from broadcast to
// their terminal state and enforces the one-pending-operation-per-kind rule
// that keeps a user from double-submitting the same logical intent.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/logging"
	"github.com/s100fund/sdk-go/core/types"
	"go.uber.org/zap"
)

// ErrOperationPending is returned when an operation of the same kind is still
// awaiting confirmation. The ledger does not deduplicate, so the SDK refuses
// the resubmission instead.
var ErrOperationPending = errors.New("operation of this kind is already pending")

// DefaultPollInterval is how often a watched transaction is re-queried.
const DefaultPollInterval = 5 * time.Second

// ReceiptWaiter is the part of the transport the tracker needs: blocking
// confirmation polling. types.Transport satisfies it.
type ReceiptWaiter interface {
	WaitTx(ctx context.Context, txHash string, interval time.Duration) (*types.TxResult, error)
}

// Tracker owns the registry of in-flight operations. Independent kinds may be
// pending concurrently; two operations of the same kind may not.
type Tracker struct {
	waiter      ReceiptWaiter
	interval    time.Duration
	onConfirmed func(ctx context.Context) error

	mu      sync.Mutex
	pending map[types.OperationKind]*types.PendingOperation
}

type Option func(*Tracker)

// WithPollInterval overrides the confirmation polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(t *Tracker) {
		t.interval = interval
	}
}

// WithRefreshHook registers the callback run after each confirmed operation,
// typically a fresh fund-state fetch. It is never run for failed operations.
func WithRefreshHook(hook func(ctx context.Context) error) Option {
	return func(t *Tracker) {
		t.onConfirmed = hook
	}
}

func NewTracker(waiter ReceiptWaiter, options ...Option) *Tracker {
	t := &Tracker{
		waiter:   waiter,
		interval: DefaultPollInterval,
		pending:  make(map[types.OperationKind]*types.PendingOperation),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// InFlight reports whether an operation of the given kind is still pending.
// Callers disable the corresponding trigger while this is true.
func (t *Tracker) InFlight(kind types.OperationKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pending[kind]
	return ok
}

// PendingCount returns the number of operations awaiting confirmation.
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Begin registers a freshly broadcast transaction, creating its pending
// operation. It refuses a second operation of a kind that is still in flight.
func (t *Tracker) Begin(kind types.OperationKind, txHash string) (*types.PendingOperation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[kind]; ok {
		return nil, errors.Wrapf(ErrOperationPending, "%s", kind)
	}
	op := types.NewPendingOperation(kind, txHash)
	t.pending[kind] = op
	return op, nil
}

// Watch blocks until the operation reaches its terminal state, then discards
// it from the registry. A confirmed operation triggers the refresh hook; a
// failed one only records the ledger's reason. There is no automatic retry.
func (t *Tracker) Watch(ctx context.Context, op *types.PendingOperation) error {
	defer t.release(op)

	res, err := t.waiter.WaitTx(ctx, op.TxHash, t.interval)
	if err != nil {
		if ferr := op.Fail(err.Error()); ferr != nil {
			return errors.WithStack(ferr)
		}
		return errors.Wrapf(err, "waiting for %s %s", op.Kind, op.TxHash)
	}

	if !res.Success {
		if ferr := op.Fail(res.Reason); ferr != nil {
			return errors.WithStack(ferr)
		}
		logging.Logger.Warn("operation rejected by ledger",
			zap.String("kind", string(op.Kind)),
			zap.String("txHash", op.TxHash),
			zap.String("reason", res.Reason))
		return nil
	}

	if err := op.Confirm(); err != nil {
		return errors.WithStack(err)
	}
	logging.Logger.Info("operation confirmed",
		zap.String("kind", string(op.Kind)),
		zap.String("txHash", op.TxHash))

	if t.onConfirmed != nil {
		if err := t.onConfirmed(ctx); err != nil {
			// the operation itself succeeded; a failed refresh only delays
			// the next snapshot
			logging.Logger.Warn("post-confirmation refresh failed", zap.Error(err))
		}
	}
	return nil
}

func (t *Tracker) release(op *types.PendingOperation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.pending[op.Kind]; ok && current == op {
		delete(t.pending, op.Kind)
	}
}
