package test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/router"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/contract"
)

// TestPrivateKey is the first well-known local development key. Its address
// is 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266.
const TestPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const TestChainID int64 = 31337

var (
	TestVaultAddress    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	TestStrategyAddress = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	TestUSDCAddress     = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
)

// ProtocolState is the stub chain's contract state. Tests mutate it to model
// different protocol situations; the view handler serves reads from it.
type ProtocolState struct {
	VaultLiquid *big.Int
	TotalAssets *big.Int
	PrizePool   *big.Int
	LastWinner  common.Address
}

// DefaultTestServerConfig returns a config wired for an in-process test run:
// short confirmation timeouts, quiet logging, fixed contract addresses.
func DefaultTestServerConfig() config.Server {
	return config.Server{
		Echo: config.EchoServer{
			ListenAddress:                  ":0",
			HideInternalServerErrorDetails: false,
			EnableRecoverMiddleware:        true,
			EnableRequestIDMiddleware:      true,
			EnableLoggerMiddleware:         false,
			EnableMetricsMiddleware:        true,
		},
		Logger: config.LoggerServer{
			Level:        "warn",
			RequestLevel: "warn",
		},
		Management: config.ManagementServer{
			Secret:           "mgmt-test-secret",
			ReadinessTimeout: time.Second,
			LivenessTimeout:  time.Second,
		},
		Chain: config.ChainProfile{
			ChainID:         TestChainID,
			VaultAddress:    TestVaultAddress,
			StrategyAddress: TestStrategyAddress,
			USDCAddress:     TestUSDCAddress,
		},
		Agent: config.AgentAccount{
			PrivateKey: TestPrivateKey,
		},
		Pipeline: config.Pipeline{
			ConfirmationTimeout: 2 * time.Second,
			PollInterval:        5 * time.Millisecond,
		},
	}
}

// NewProtocolViewHandler answers eth_call against the given state using the
// real contract bindings, so selector handling stays honest.
func NewProtocolViewHandler(registry *contract.Registry, state *ProtocolState) func(common.Address, []byte) ([]byte, error) {
	balanceOfSelector := mustSelector(registry.USDC, "balanceOf", common.Address{})
	totalAssetsSelector := mustSelector(registry.Vault, "totalAssets")
	getBalanceSelector := mustSelector(registry.Strategy, "getBalance")
	lastWinnerSelector := mustSelector(registry.Strategy, "lastWinner")

	return func(to common.Address, data []byte) ([]byte, error) {
		selector := Selector(data)

		switch {
		case to == registry.USDC.Address && selector == balanceOfSelector:
			return Uint256Result(state.VaultLiquid), nil
		case to == registry.Vault.Address && selector == totalAssetsSelector:
			return Uint256Result(state.TotalAssets), nil
		case selector == getBalanceSelector:
			return Uint256Result(state.PrizePool), nil
		case selector == lastWinnerSelector:
			return AddressResult(state.LastWinner), nil
		}

		return nil, contract.ErrMethodNotFound
	}
}

func mustSelector(binding *contract.Binding, method string, args ...interface{}) string {
	data, err := binding.Pack(method, args...)
	if err != nil {
		panic(err)
	}
	return Selector(data)
}

// WithTestServer runs the closure against a fully wired server backed by a
// stub chain holding a default protocol state.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerAndChain(t, func(s *api.Server, _ *RPCChain, _ *ProtocolState) {
		closure(s)
	})
}

// WithTestServerAndChain additionally exposes the stub chain and its protocol
// state so the test can shape on-chain behavior.
func WithTestServerAndChain(t *testing.T, closure func(s *api.Server, rc *RPCChain, state *ProtocolState)) {
	t.Helper()

	cfg := DefaultTestServerConfig()

	rc := NewRPCChain(t, cfg.Chain.ChainID)
	cfg.Chain.RPCURLs = []string{rc.URL()}

	registry, err := contract.NewRegistry(cfg.Chain)
	require.NoError(t, err)

	state := &ProtocolState{
		VaultLiquid: big.NewInt(500_000_000),   // 500 USDC
		TotalAssets: big.NewInt(1_250_000_000), // 1250 USDC
		PrizePool:   big.NewInt(75_000_000),    // 75 USDC
		LastWinner:  common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
	}
	rc.ViewHandler = NewProtocolViewHandler(registry, state)

	client, err := chain.NewClient(cfg.Chain.RPCURLs)
	require.NoError(t, err)

	s, err := api.InitNewServerWithChainClient(cfg, client)
	require.NoError(t, err)

	router.Init(s)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	closure(s, rc, state)
}

// PerformRequest runs a request through the server's full middleware and
// routing stack without binding a port.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}

const echoHeaderContentType = "Content-Type"

// ParseResponseAndValidate unmarshals the JSON response body into v.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}
