package types

import (
	"context"
	"math/big"
	"time"

	"github.com/s100fund/sdk-go/core/util"
)

// Transport abstracts the communication layer with the fund ledger contract.
// This interface allows using different transport implementations without
// changing SDK code.
//
// The default implementation (fundclient.RPCTransport) speaks EVM JSON-RPC via
// go-ethereum's ethclient. Custom implementations can target other execution
// environments, or be mocks for testing:
//
//	type MyTransport struct { ... }
//
//	func (t *MyTransport) Call(ctx context.Context, method string, args ...any) ([]any, error) {
//	    // Custom implementation
//	    return []any{big.NewInt(0)}, nil
//	}
//
// All SDK reads and writes go through Transport, so the entire SDK adapts to a
// different environment without code changes.
type Transport interface {
	// Call executes a read-only contract method and returns the decoded
	// output values. It has no side effects on the ledger.
	Call(ctx context.Context, method string, args ...any) ([]any, error)

	// Submit signs and broadcasts a mutating contract call. For payable
	// methods, value carries the attached payment in minor units; it is nil
	// otherwise. Returns the 0x-prefixed transaction hash.
	//
	// A signing or broadcast failure is reported synchronously; no
	// transaction exists on the ledger in that case.
	Submit(ctx context.Context, method string, value *big.Int, args ...any) (string, error)

	// WaitTx polls for transaction confirmation with the specified interval.
	// It blocks until the transaction reaches a terminal state or the
	// context is cancelled.
	WaitTx(ctx context.Context, txHash string, interval time.Duration) (*TxResult, error)

	// ChainID returns the network chain identifier transactions are bound to.
	ChainID() *big.Int

	// Sender returns the signing identity. It fails when the transport is
	// configured without a signer (read-only mode).
	Sender() (util.EthereumAddress, error)
}

// TxResult is the terminal outcome of a submitted transaction.
type TxResult struct {
	// Success is true when the ledger executed the call without reverting.
	Success bool
	// Reason carries the ledger's failure log for reverted calls.
	Reason string
}
