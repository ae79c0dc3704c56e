package common_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/test"
)

func TestGetReady(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)

		assert.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyMissingComponent(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		s.Pipeline = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)

		assert.Equal(t, 521, res.Result().StatusCode)
		assert.Equal(t, "Not ready.", res.Body.String())
	})
}
