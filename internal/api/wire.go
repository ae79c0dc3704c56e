//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/metrics"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewRegistry,
	NewAccount,
	NewBuilder,
	NewWaiter,
	NewSignerService,
	NewPipelineService,
	NewVaultService,
	NewLotteryService,
	NewPlannerService,
	metrics.New,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewChainClient)
	return new(Server), nil
}

// InitNewServerWithChainClient returns a new Server instance built on the given
// chain client. All the other components are initialized via go wire according
// to the configuration. Used by tests to substitute a stub RPC backend.
func InitNewServerWithChainClient(
	_ config.Server,
	_ *chain.Client,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
