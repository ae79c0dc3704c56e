package vault_test

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

func TestPostDeposit(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/vault/deposit", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SequenceResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.True(t, swag.BoolValue(response.Success))
		assert.False(t, response.NoOp)
		assert.Equal(t, int64(1), response.ConfirmedSteps)
		assert.Equal(t, "Deposited 500 USDC into strategy", response.Message)

		sent := rc.SentTransactions()
		require.Len(t, sent, 1)

		tx := sent[0]
		require.NotNil(t, tx.To())
		assert.Equal(t, test.TestVaultAddress, *tx.To())

		want, err := s.Registry.Vault.Pack("depositToStrategy",
			test.TestStrategyAddress, big.NewInt(500_000_000), []byte{})
		require.NoError(t, err)
		assert.Equal(t, want, tx.Data())
	})
}

func TestPostDepositEmptyVaultIsNoOp(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, state *test.ProtocolState) {
		state.VaultLiquid = big.NewInt(0)

		res := test.PerformRequest(t, s, "POST", "/api/v1/vault/deposit", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SequenceResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.True(t, swag.BoolValue(response.Success))
		assert.True(t, response.NoOp)

		// nothing was signed or broadcast
		assert.Empty(t, rc.SentTransactions())
	})
}

func TestPostDepositRevertedOnChain(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		rc.RevertAll = true

		res := test.PerformRequest(t, s, "POST", "/api/v1/vault/deposit", nil, nil)
		assert.Equal(t, http.StatusBadGateway, res.Result().StatusCode)

		var response types.SequenceResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.False(t, swag.BoolValue(response.Success))
		assert.Equal(t, int64(0), response.ConfirmedSteps)
		require.Len(t, response.Steps, 1)
		assert.Equal(t, "failed", response.Steps[0].State)
	})
}
