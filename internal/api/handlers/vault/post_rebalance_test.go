package vault_test

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
	"github/prizevault/go-vault-agent/internal/types"
)

func TestPostRebalance(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		body := types.PostRebalancePayload{
			Allocations: []*types.RebalanceAllocationPayload{
				{Strategy: swag.String("VrfYieldStrategy"), Amount: swag.String("100")},
				{Strategy: swag.String("0x8A791620dd6260079BF849Dc5567aDC3F2FdC318"), Amount: swag.String("50.25")},
			},
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/vault/rebalance", body, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SequenceResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.True(t, swag.BoolValue(response.Success))

		sent := rc.SentTransactions()
		require.Len(t, sent, 1)
		assert.Equal(t, test.TestVaultAddress, *sent[0].To())

		want, err := s.Registry.Vault.Pack("rebalance",
			[]common.Address{
				test.TestStrategyAddress,
				common.HexToAddress("0x8A791620dd6260079BF849Dc5567aDC3F2FdC318"),
			},
			[]*big.Int{big.NewInt(100_000_000), big.NewInt(50_250_000)},
		)
		require.NoError(t, err)
		assert.Equal(t, want, sent[0].Data())
	})
}

func TestPostRebalanceValidation(t *testing.T) {
	test.WithTestServerAndChain(t, func(s *api.Server, rc *test.RPCChain, _ *test.ProtocolState) {
		tests := []struct {
			name string
			body types.PostRebalancePayload
		}{
			{"no allocations", types.PostRebalancePayload{}},
			{"unknown strategy", types.PostRebalancePayload{
				Allocations: []*types.RebalanceAllocationPayload{
					{Strategy: swag.String("does-not-exist"), Amount: swag.String("100")},
				},
			}},
			{"bad amount", types.PostRebalancePayload{
				Allocations: []*types.RebalanceAllocationPayload{
					{Strategy: swag.String("VrfYieldStrategy"), Amount: swag.String("-3")},
				},
			}},
			{"missing amount", types.PostRebalancePayload{
				Allocations: []*types.RebalanceAllocationPayload{
					{Strategy: swag.String("VrfYieldStrategy")},
				},
			}},
			// sub-base-unit amounts are rejected, never silently truncated
			{"sub-base-unit precision", types.PostRebalancePayload{
				Allocations: []*types.RebalanceAllocationPayload{
					{Strategy: swag.String("VrfYieldStrategy"), Amount: swag.String("1.0000005")},
				},
			}},
		}

		for _, tc := range tests {
			res := test.PerformRequest(t, s, "POST", "/api/v1/vault/rebalance", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, res.Result().StatusCode, tc.name)
		}

		assert.Empty(t, rc.SentTransactions())
	})
}
