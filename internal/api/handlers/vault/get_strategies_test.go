package vault_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
	"github/prizevault/go-vault-agent/internal/types"
)

func TestGetStrategies(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/vault/strategies", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.GetStrategiesResponse
		test.ParseResponseAndValidate(t, res, &response)

		require.Len(t, response.Strategies, 1)
		item := response.Strategies[0]
		assert.Equal(t, "VrfYieldStrategy", item.Name)
		assert.Equal(t, test.TestStrategyAddress.Hex(), item.Address)
		assert.Equal(t, "75", item.BalanceUSDC)
	})
}
