package vault_test

import (
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
	"github/prizevault/go-vault-agent/internal/types"
)

func TestGetVaultStatus(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/vault/status", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.VaultStatusResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", swag.StringValue(response.AgentAddress))
		assert.Equal(t, "500", swag.StringValue(response.VaultLiquidUSDC))
		assert.Equal(t, "1250", swag.StringValue(response.TotalAssetsUSDC))
		assert.Equal(t, "75", swag.StringValue(response.PrizePoolUSDC))
		assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", swag.StringValue(response.LastWinner))
	})
}

func TestGetVaultStatusChainDown(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		rc.Server.Close()

		res := test.PerformRequest(t, s, "GET", "/api/v1/vault/status", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, res.Result().StatusCode)
	})
}
