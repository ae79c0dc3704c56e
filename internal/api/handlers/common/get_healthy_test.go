package common_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
)

func TestGetHealthyWithSecret(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy?mgmt-secret=mgmt-test-secret", nil, nil)

		assert.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, "OK.", res.Body.String())
	})
}

func TestGetHealthyRejectsMissingSecret(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/-/healthy?mgmt-secret=wrong", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Result().StatusCode)
	})
}
