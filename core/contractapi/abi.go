package contractapi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/s100fund/sdk-go/core/logging"
	"go.uber.org/zap"
)

// fundABIJSON is the ledger contract surface the SDK consumes. Reads return
// minor-unit integers (10^18 subunits per whole unit); invest is payable.
const fundABIJSON = `[
  {"type":"function","name":"invest","stateMutability":"payable","inputs":[],"outputs":[]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getTreasuryBalance","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalContributed","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokensPerUnit","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"mintManual","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"},{"name":"reason","type":"string"}],"outputs":[]},
  {"type":"event","name":"Investment","anonymous":false,"inputs":[{"name":"investor","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false},{"name":"tokensIssued","type":"uint256","indexed":false}]}
]`

// FundABI is the parsed contract ABI, shared by the RPC transport for call
// packing and by event decoding.
var FundABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(fundABIJSON))
	if err != nil {
		logging.Logger.Panic("fund ABI does not parse", zap.Error(err))
	}
	FundABI = parsed
}
