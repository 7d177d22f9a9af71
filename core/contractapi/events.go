package contractapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/types"
	"github.com/s100fund/sdk-go/core/util"
)

// ErrNotInvestmentEvent is returned when a log record is not the fund's
// investment-completed notification.
var ErrNotInvestmentEvent = errors.New("log is not an Investment event")

// ParseInvestmentEvent decodes the ledger's investment-completed notification
// from a raw log record. The SDK consumes it only as an optional refresh
// trigger; the accounting itself is always re-read from the ledger.
func ParseInvestmentEvent(record ethtypes.Log) (*types.InvestmentEvent, error) {
	ev := FundABI.Events["Investment"]
	if len(record.Topics) < 2 || record.Topics[0] != ev.ID {
		return nil, ErrNotInvestmentEvent
	}

	investor, err := util.NewEthereumAddressFromBytes(common.BytesToAddress(record.Topics[1].Bytes()).Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "investor address")
	}

	vals, err := FundABI.Unpack("Investment", record.Data)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "Investment data: %v", err)
	}
	if len(vals) != 2 {
		return nil, errors.Wrapf(ErrMalformedResponse, "Investment data has %d values, want 2", len(vals))
	}
	amount, ok := vals[0].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedResponse, "Investment amount is %T", vals[0])
	}
	tokens, ok := vals[1].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedResponse, "Investment tokens is %T", vals[1])
	}

	return &types.InvestmentEvent{
		Investor:     investor,
		Amount:       util.FromMinorUnit(amount),
		TokensIssued: util.FromMinorUnit(tokens),
	}, nil
}
