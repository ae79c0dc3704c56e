package api

import (
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/agent/account"
	"github/prizevault/go-vault-agent/internal/agent/builder"
	"github/prizevault/go-vault-agent/internal/agent/pipeline"
	"github/prizevault/go-vault-agent/internal/agent/signer"
	"github/prizevault/go-vault-agent/internal/agent/waiter"
	"github/prizevault/go-vault-agent/internal/chain"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/contract"
	"github/prizevault/go-vault-agent/internal/lottery"
	"github/prizevault/go-vault-agent/internal/metrics"
	"github/prizevault/go-vault-agent/internal/planner"
	"github/prizevault/go-vault-agent/internal/vault"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#providers

func NewChainClient(cfg config.Server) (*chain.Client, error) {
	if err := cfg.Chain.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid chain profile")
	}

	return chain.NewClient(cfg.Chain.RPCURLs)
}

func NewRegistry(cfg config.Server) (*contract.Registry, error) {
	return contract.NewRegistry(cfg.Chain)
}

func NewAccount(cfg config.Server) (*account.Account, error) {
	return account.NewFromConfig(cfg.Agent)
}

func NewBuilder(cfg config.Server) *builder.Builder {
	return builder.New(cfg.Chain.ChainID)
}

func NewWaiter(cfg config.Server) *waiter.Waiter {
	return waiter.New(cfg.Pipeline.ConfirmationTimeout, cfg.Pipeline.PollInterval)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSignerService(acct *account.Account) (SignerService, error) {
	return signer.NewService(acct)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewPipelineService(
	client *chain.Client,
	acct *account.Account,
	bld *builder.Builder,
	sgn SignerService,
	wtr *waiter.Waiter,
	mtr *metrics.Service,
) (PipelineService, error) {
	return pipeline.NewService(client, acct, bld, sgn, wtr, mtr)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewVaultService(
	client *chain.Client,
	registry *contract.Registry,
	pipe PipelineService,
	acct *account.Account,
) (VaultService, error) {
	return vault.NewService(client, registry, pipe, acct.Address())
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewLotteryService(
	client *chain.Client,
	registry *contract.Registry,
	pipe PipelineService,
) (LotteryService, error) {
	return lottery.NewService(client, registry, pipe)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewPlannerService() PlannerService {
	return planner.NewService()
}
