package config

import "github.com/pkg/errors"

var (
	ErrMissingRPCURLs         = errors.New("config: AGENT_RPC_URLS is required")
	ErrMissingChainID         = errors.New("config: AGENT_CHAIN_ID is required")
	ErrMissingVaultAddress    = errors.New("config: VAULT_ADDRESS is required")
	ErrMissingStrategyAddress = errors.New("config: VRF_STRATEGY_ADDRESS is required")
	ErrMissingUSDCAddress     = errors.New("config: USDC_TOKEN_ADDRESS is required")
)
