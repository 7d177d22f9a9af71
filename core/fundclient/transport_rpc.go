package fundclient

import (
	"context"
	"crypto/ecdsa"
	stderrors "errors"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/contractapi"
	"github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
)

// RPCTransport is the default Transport: EVM JSON-RPC against the fund
// contract via go-ethereum. Without a signer key it operates read-only and
// any Submit fails synchronously.
type RPCTransport struct {
	ec       *ethclient.Client
	contract common.Address
	cabi     abi.ABI
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

var _ types.Transport = (*RPCTransport)(nil)

type RPCOption func(*RPCTransport)

// WithSignerKey attaches the key used to sign mutating calls.
func WithSignerKey(key *ecdsa.PrivateKey) RPCOption {
	return func(t *RPCTransport) {
		t.key = key
	}
}

// ParsePrivateKey parses a hex-encoded secp256k1 private key.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return key, nil
}

// NewRPCTransport dials the ledger RPC endpoint and binds the fund contract.
func NewRPCTransport(ctx context.Context, rpcURL string, contract util.EthereumAddress, options ...RPCOption) (*RPCTransport, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", rpcURL)
	}
	chainID, err := ec.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch chain id")
	}

	t := &RPCTransport{
		ec:       ec,
		contract: contract.Common(),
		cabi:     contractapi.FundABI,
		chainID:  chainID,
	}
	for _, option := range options {
		option(t)
	}
	return t, nil
}

// Call packs a read-only contract call, executes it against the latest block
// and returns the decoded outputs.
func (t *RPCTransport) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := t.cabi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	out, err := t.ec.CallContract(ctx, ethereum.CallMsg{To: &t.contract, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	vals, err := t.cabi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return vals, nil
}

// Submit signs and broadcasts a mutating call. Gas estimation runs the call
// against pending state first, so most ledger rejections surface here, before
// anything is broadcast.
func (t *RPCTransport) Submit(ctx context.Context, method string, value *big.Int, args ...any) (string, error) {
	if t.key == nil {
		return "", errors.New("transport is read-only: no signer key configured")
	}
	if value == nil {
		value = new(big.Int)
	}
	from := crypto.PubkeyToAddress(t.key.PublicKey)

	data, err := t.cabi.Pack(method, args...)
	if err != nil {
		return "", errors.Wrapf(err, "pack %s", method)
	}

	nonce, err := t.ec.PendingNonceAt(ctx, from)
	if err != nil {
		return "", errors.Wrap(err, "fetch nonce")
	}
	gasPrice, err := t.ec.SuggestGasPrice(ctx)
	if err != nil {
		return "", errors.Wrap(err, "suggest gas price")
	}
	gasLimit, err := t.ec.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &t.contract,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return "", errors.Wrapf(err, "estimate gas for %s", method)
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &t.contract,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return "", errors.Wrapf(err, "sign %s", method)
	}
	if err := t.ec.SendTransaction(ctx, signed); err != nil {
		return "", errors.Wrapf(err, "broadcast %s", method)
	}
	return signed.Hash().Hex(), nil
}

// WaitTx polls for the transaction receipt until a terminal state or context
// cancellation.
func (t *RPCTransport) WaitTx(ctx context.Context, txHash string, interval time.Duration) (*types.TxResult, error) {
	hash := common.HexToHash(txHash)
	for {
		receipt, err := t.ec.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status == ethtypes.ReceiptStatusSuccessful {
				return &types.TxResult{Success: true}, nil
			}
			return &types.TxResult{Success: false, Reason: "execution reverted"}, nil
		}
		if !stderrors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrapf(err, "query receipt %s", txHash)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "waiting for %s", txHash)
		case <-time.After(interval):
		}
	}
}

// ChainID returns the network the transport is bound to.
func (t *RPCTransport) ChainID() *big.Int {
	return new(big.Int).Set(t.chainID)
}

// Sender derives the signing identity from the configured key.
func (t *RPCTransport) Sender() (util.EthereumAddress, error) {
	if t.key == nil {
		return util.EthereumAddress{}, errors.New("transport is read-only: no signer key configured")
	}
	return util.NewEthereumAddressFromBytes(crypto.PubkeyToAddress(t.key.PublicKey).Bytes())
}

// Close releases the underlying RPC connection.
func (t *RPCTransport) Close() {
	t.ec.Close()
}
