package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/api/router"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/util/command"
)

const shutdownTimeout = 30 * time.Second

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the HTTP server",
		Long: `Starts the stateless RESTful JSON server.
Requires configuration through ENV and a reachable RPC endpoint.`,
		Run: func(_ *cobra.Command, _ []string) {
			runServer()
		},
	}
}

func runServer() {
	cfg := config.DefaultServiceConfigFromEnv()

	command.ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := verifyChainID(s); err != nil {
		log.Fatal().Err(err).Msg("Chain verification failed")
	}

	router.Init(s)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().
		Str("address", cfg.Echo.ListenAddress).
		Str("agent", s.Account.Address().Hex()).
		Int64("chain_id", cfg.Chain.ChainID).
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("errors", errs).Msg("Failed to gracefully shutdown server")
	}
}

// verifyChainID guards against pointing the agent at the wrong network: the
// endpoint's chain ID must match the configured one before any transaction
// can be signed.
func verifyChainID(s *api.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chainID, err := s.Chain.ChainID(ctx)
	if err != nil {
		return err
	}

	if chainID.Int64() != s.Config.Chain.ChainID {
		log.Error().
			Int64("configured", s.Config.Chain.ChainID).
			Str("reported", chainID.String()).
			Msg("Chain ID mismatch")
		return errors.New("configured chain ID does not match the RPC endpoint")
	}

	return nil
}
