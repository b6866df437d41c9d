package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/swapwallet/internal/platform/balance"
	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/handler"
	"github.com/kislikjeka/swapwallet/pkg/config"
)

// =============================================================================
// Mock Services
// =============================================================================

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalances(ctx context.Context, networkID, address string) (*balance.Result, error) {
	args := m.Called(ctx, networkID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*balance.Result), args.Error(1)
}

var _ handler.BalanceServiceInterface = (*MockBalanceService)(nil)

type MockGasService struct {
	mock.Mock
}

func (m *MockGasService) ResolveGas(ctx context.Context, req fee.GasRequest) (*fee.Estimate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fee.Estimate), args.Error(1)
}

var _ handler.GasServiceInterface = (*MockGasService)(nil)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Attempt(ctx context.Context, swapID string) (tracker.Attempt, error) {
	args := m.Called(ctx, swapID)
	return args.Get(0).(tracker.Attempt), args.Error(1)
}

func (m *MockTransferService) Prepare(ctx context.Context, swapID string, intent tracker.TransferIntent) (tracker.Attempt, error) {
	args := m.Called(ctx, swapID, intent)
	return args.Get(0).(tracker.Attempt), args.Error(1)
}

func (m *MockTransferService) Submit(ctx context.Context, swapID string) (tracker.Attempt, error) {
	args := m.Called(ctx, swapID)
	return args.Get(0).(tracker.Attempt), args.Error(1)
}

func (m *MockTransferService) Resume(ctx context.Context, swapID string) (tracker.Attempt, error) {
	args := m.Called(ctx, swapID)
	return args.Get(0).(tracker.Attempt), args.Error(1)
}

var _ handler.TransferServiceInterface = (*MockTransferService)(nil)

type MockSwapStore struct {
	mock.Mock
}

func (m *MockSwapStore) GetTransaction(ctx context.Context, swapID string) (*tracker.SwapTransaction, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracker.SwapTransaction), args.Error(1)
}

var _ handler.SwapStoreInterface = (*MockSwapStore)(nil)

// =============================================================================
// Fixtures
// =============================================================================

const (
	ethNetwork  = "ETHEREUM_MAINNET"
	signer      = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	destination = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

const registryYAML = `
networks:
  - id: ETHEREUM_MAINNET
    chain_id: 1
    native_currency: ETH
    rpc_url: http://localhost:8545
    assets:
      - {symbol: ETH, decimals: 18}
      - {symbol: USDC, decimals: 6, contract_address: "0x00000000000000000000000000000000000000c1"}
      - {symbol: OLD, decimals: 18, contract_address: "0x00000000000000000000000000000000000000c3", status: inactive}
`

func newRegistry(t *testing.T) *network.Registry {
	t.Helper()
	cfg, err := config.ParseNetworksConfig([]byte(registryYAML))
	require.NoError(t, err)
	reg, err := network.NewRegistry(cfg)
	require.NoError(t, err)
	return reg
}

// serve routes a single request through a chi router so URL params resolve
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
