package lottery_test

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
	"github/prizevault/go-vault-agent/internal/types"
)

func TestPostDraw(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/lottery/draw", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.PostDrawResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.True(t, swag.BoolValue(response.Success))
		assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", response.Winner)
		assert.NotEmpty(t, response.TxHash)
		assert.Equal(t, int64(60_000), response.GasUsed)

		sent := rc.SentTransactions()
		require.Len(t, sent, 1)
		assert.Equal(t, test.TestVaultAddress, *sent[0].To())

		want, err := s.Registry.Vault.Pack("harvestStrategy", test.TestStrategyAddress, []byte{})
		require.NoError(t, err)
		assert.Equal(t, want, sent[0].Data())
	})
}

func TestPostDrawEmptyPool(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, state *test.ProtocolState) {
		state.PrizePool = big.NewInt(0)

		res := test.PerformRequest(t, s, "POST", "/api/v1/lottery/draw", nil, nil)
		assert.Equal(t, http.StatusConflict, res.Result().StatusCode)

		// the refusal happens before anything is signed
		assert.Empty(t, rc.SentTransactions())
	})
}

func TestPostDrawRevertedOnChain(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		rc.RevertAll = true

		res := test.PerformRequest(t, s, "POST", "/api/v1/lottery/draw", nil, nil)
		assert.Equal(t, http.StatusBadGateway, res.Result().StatusCode)

		var response types.PostDrawResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.False(t, swag.BoolValue(response.Success))
	})
}
