package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
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
	"github/prizevault/go-vault-agent/internal/util"
	"github/prizevault/go-vault-agent/internal/vault"
)

// SignerService interface for transaction signing operations
// Alias to signer.Service for API access
type SignerService = signer.Service

// PipelineService interface for transaction submission
// Alias to pipeline.Service for API access
type PipelineService = pipeline.Service

// VaultService interface for vault funding operations
// Alias to vault.Service for API access
type VaultService = vault.Service

// LotteryService interface for prize draw operations
type LotteryService = lottery.Service

// PlannerService interface for command resolution
type PlannerService = planner.Service

type Router struct {
	Routes       []*echo.Route
	Root         *echo.Group
	Management   *echo.Group
	APIV1Vault   *echo.Group
	APIV1Lottery *echo.Group
	APIV1Agent   *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config   config.Server
	Chain    *chain.Client
	Registry *contract.Registry
	Account  *account.Account
	Builder  *builder.Builder
	Metrics  *metrics.Service
	Signer   SignerService
	Waiter   *waiter.Waiter
	Pipeline PipelineService
	Vault    VaultService
	Lottery  LotteryService
	Planner  PlannerService
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	client *chain.Client,
	registry *contract.Registry,
	acct *account.Account,
	bld *builder.Builder,
	mtr *metrics.Service,
	sgn SignerService,
	wtr *waiter.Waiter,
	pipe PipelineService,
	vaultSvc VaultService,
	lotterySvc LotteryService,
	plannerSvc PlannerService,
) *Server {
	return &Server{
		Config:   cfg,
		Chain:    client,
		Registry: registry,
		Account:  acct,
		Builder:  bld,
		Metrics:  mtr,
		Signer:   sgn,
		Waiter:   wtr,
		Pipeline: pipe,
		Vault:    vaultSvc,
		Lottery:  lotterySvc,
		Planner:  plannerSvc,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Chain != nil {
		log.Debug().Msg("Closing chain client connections")
		s.Chain.Close()
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
