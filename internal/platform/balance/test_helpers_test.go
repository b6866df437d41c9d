package balance_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/swapwallet/internal/platform/balance"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/pkg/config"
)

type MockChainReader struct {
	mock.Mock
}

func (m *MockChainReader) NativeBalance(ctx context.Context, networkID, address string) (*big.Int, error) {
	args := m.Called(ctx, networkID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainReader) TokenBalance(ctx context.Context, networkID, contract, address string) (*big.Int, error) {
	args := m.Called(ctx, networkID, contract, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainReader) MulticallTokenBalances(ctx context.Context, networkID string, contracts []string, address string) ([]balance.TokenBalanceResult, error) {
	args := m.Called(ctx, networkID, contracts, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]balance.TokenBalanceResult), args.Error(1)
}

var _ balance.ChainReader = (*MockChainReader)(nil)

const balancesYAML = `
networks:
  - id: ETHEREUM_MAINNET
    chain_id: 1
    native_currency: ETH
    multicall: true
    multicall_address: "0xca11bde05977b3631167028862be2a173976ca11"
    rpc_url: http://localhost:8545
    assets:
      - {symbol: ETH, decimals: 18}
      - {symbol: USDC, decimals: 6, contract_address: "0x00000000000000000000000000000000000000c1"}
      - {symbol: USDT, decimals: 6, contract_address: "0x00000000000000000000000000000000000000c2"}
      - {symbol: OLD, decimals: 18, contract_address: "0x00000000000000000000000000000000000000c3", status: inactive}
  - id: BSC_MAINNET
    chain_id: 56
    native_currency: BNB
    rpc_url: http://localhost:8546
    assets:
      - {symbol: BNB, decimals: 18}
      - {symbol: USDT, decimals: 18, contract_address: "0x00000000000000000000000000000000000000b1"}
      - {symbol: BUSD, decimals: 18, contract_address: "0x00000000000000000000000000000000000000b2"}
      - {symbol: CAKE, decimals: 18, contract_address: "0x00000000000000000000000000000000000000b3"}
`

const holder = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func newRegistry(t *testing.T) *network.Registry {
	t.Helper()
	cfg, err := config.ParseNetworksConfig([]byte(balancesYAML))
	require.NoError(t, err)
	reg, err := network.NewRegistry(cfg)
	require.NoError(t, err)
	return reg
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}
