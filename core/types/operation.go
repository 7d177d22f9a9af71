package types

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// OperationKind identifies the logical mutating action an operation performs.
type OperationKind string

const (
	OperationInvest     OperationKind = "invest"
	OperationWithdraw   OperationKind = "withdraw"
	OperationMintManual OperationKind = "mint_manual"
)

// OperationStatus is the lifecycle state of a submitted operation.
type OperationStatus string

const (
	StatusPending   OperationStatus = "pending"
	StatusConfirmed OperationStatus = "confirmed"
	StatusFailed    OperationStatus = "failed"
)

// ErrTerminalState is returned when a transition is attempted on an operation
// that already reached Confirmed or Failed.
var ErrTerminalState = errors.New("operation already in terminal state")

// PendingOperation tracks one submitted mutating call from broadcast through
// confirmation. It transitions exactly once from Pending to Confirmed or
// Failed and is discarded once the terminal state has been observed; it is
// never persisted.
type PendingOperation struct {
	Kind OperationKind
	// TxHash is the 0x-prefixed hash the ledger assigned at broadcast.
	TxHash string
	// SubmittedAt is when the signing layer accepted the call.
	SubmittedAt time.Time

	mu         sync.Mutex
	status     OperationStatus
	failReason string
}

// NewPendingOperation creates an operation in the Pending state.
func NewPendingOperation(kind OperationKind, txHash string) *PendingOperation {
	return &PendingOperation{
		Kind:        kind,
		TxHash:      txHash,
		SubmittedAt: time.Now(),
		status:      StatusPending,
	}
}

// Status returns the current lifecycle state.
func (o *PendingOperation) Status() OperationStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// FailReason returns the ledger's failure log for Failed operations, empty
// otherwise.
func (o *PendingOperation) FailReason() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failReason
}

// Terminal reports whether the operation reached Confirmed or Failed.
func (o *PendingOperation) Terminal() bool {
	return o.Status() != StatusPending
}

// Confirm transitions Pending -> Confirmed.
func (o *PendingOperation) Confirm() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusPending {
		return errors.Wrapf(ErrTerminalState, "%s is %s", o.Kind, o.status)
	}
	o.status = StatusConfirmed
	return nil
}

// Fail transitions Pending -> Failed, recording the ledger's reason.
func (o *PendingOperation) Fail(reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != StatusPending {
		return errors.Wrapf(ErrTerminalState, "%s is %s", o.Kind, o.status)
	}
	o.status = StatusFailed
	o.failReason = reason
	return nil
}
