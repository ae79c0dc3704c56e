package common_test

import (
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
	"github/prizevault/go-vault-agent/internal/types"
)

func TestGetMetricsReportsSubmissions(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		body := types.PostHarvestPayload{Amount: swag.String("10")}
		res := test.PerformRequest(t, s, "POST", "/api/v1/vault/harvest", body, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		assert.Equal(t, http.StatusOK, res.Result().StatusCode)

		metrics := res.Body.String()
		assert.Contains(t, metrics, "vault_agent_tx_submitted_total 3")
		assert.Contains(t, metrics, "vault_agent_tx_confirmed_total 3")
		assert.Contains(t, metrics, "vault_agent_sequences_completed_total 1")
	})
}
