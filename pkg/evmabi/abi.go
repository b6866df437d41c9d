// Package evmabi holds the contract ABIs the service calls into.
package evmabi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20JSON = `[
 {"type":"function","name":"transfer","stateMutability":"nonpayable",
  "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
  "outputs":[{"name":"","type":"bool"}]},
 {"type":"function","name":"balanceOf","stateMutability":"view",
  "inputs":[{"name":"account","type":"address"}],
  "outputs":[{"name":"","type":"uint256"}]}
]`

const multicall3JSON = `[
 {"type":"function","name":"aggregate3","stateMutability":"payable",
  "inputs":[{"name":"calls","type":"tuple[]","components":[
    {"name":"target","type":"address"},
    {"name":"allowFailure","type":"bool"},
    {"name":"callData","type":"bytes"}]}],
  "outputs":[{"name":"returnData","type":"tuple[]","components":[
    {"name":"success","type":"bool"},
    {"name":"returnData","type":"bytes"}]}]}
]`

const gasPriceOracleJSON = `[
 {"type":"function","name":"getL1Fee","stateMutability":"view",
  "inputs":[{"name":"_data","type":"bytes"}],
  "outputs":[{"name":"","type":"uint256"}]}
]`

func parseABI(abiStr string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiStr))
	if err != nil {
		panic(fmt.Sprintf("failed to parse abi: %v", err))
	}
	return &parsed
}

var (
	ERC20          = parseABI(erc20JSON)
	Multicall3     = parseABI(multicall3JSON)
	GasPriceOracle = parseABI(gasPriceOracleJSON)
)

// GasPriceOracleAddress is the OP-stack predeploy that prices L1 data
var GasPriceOracleAddress = common.HexToAddress("0x420000000000000000000000000000000000000F")

// Call3 is one entry of a Multicall3 aggregate3 batch
type Call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// Result is one entry of the aggregate3 response
type Result struct {
	Success    bool
	ReturnData []byte
}

// PackTransfer encodes transfer(to, value)
func PackTransfer(to common.Address, value *big.Int) ([]byte, error) {
	return ERC20.Pack("transfer", to, value)
}

// PackBalanceOf encodes balanceOf(account)
func PackBalanceOf(account common.Address) ([]byte, error) {
	return ERC20.Pack("balanceOf", account)
}

// UnpackBalanceOf decodes a balanceOf return value
func UnpackBalanceOf(data []byte) (*big.Int, error) {
	out, err := ERC20.Unpack("balanceOf", data)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("balanceOf returned %d values", len(out))
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf returned %T", out[0])
	}
	return balance, nil
}

// PackAggregate3 encodes a Multicall3 aggregate3 batch
func PackAggregate3(calls []Call3) ([]byte, error) {
	return Multicall3.Pack("aggregate3", calls)
}

// UnpackAggregate3 decodes an aggregate3 response
func UnpackAggregate3(data []byte) ([]Result, error) {
	out, err := Multicall3.Unpack("aggregate3", data)
	if err != nil {
		return nil, err
	}
	var results []Result
	if err := Multicall3.Methods["aggregate3"].Outputs.Copy(&results, out); err != nil {
		return nil, fmt.Errorf("decode aggregate3 results: %w", err)
	}
	return results, nil
}

// PackGetL1Fee encodes getL1Fee(data)
func PackGetL1Fee(txData []byte) ([]byte, error) {
	return GasPriceOracle.Pack("getL1Fee", txData)
}

// UnpackUint256 decodes a single uint256 return value of method on a
func UnpackUint256(a *abi.ABI, method string, data []byte) (*big.Int, error) {
	out, err := a.Unpack(method, data)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s returned %d values", method, len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T", method, out[0])
	}
	return v, nil
}
