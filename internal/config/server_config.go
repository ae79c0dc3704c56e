package config

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github/prizevault/go-vault-agent/internal/util"
)

// EchoServer configures the echo HTTP layer.
type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
	EnableMetricsMiddleware        bool
}

// ChainProfile identifies one deployment of the protocol: the RPC endpoints,
// the chain ID and the deployed contract address set. Collapsing the
// per-deployment variants into this one struct is what lets a single binary
// serve Aurora, Flow EVM or any other EVM testnet.
type ChainProfile struct {
	RPCURLs         []string
	ChainID         int64
	VaultAddress    common.Address
	StrategyAddress common.Address
	USDCAddress     common.Address
	// ExtraStrategies holds additional named yield strategies (name -> address)
	// used by rebalance and strategy-balance operations.
	ExtraStrategies map[string]common.Address
}

// AgentAccount configures how the agent's signing key is sourced.
// Exactly one of PrivateKey, Mnemonic or KeystoreFile must be set.
type AgentAccount struct {
	PrivateKey         string
	Mnemonic           string
	DerivationPath     string
	KeystoreFile       string
	KeystorePassphrase string
}

// Pipeline configures transaction submission behavior.
type Pipeline struct {
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
}

type LoggerServer struct {
	Level              string
	RequestLevel       string
	LogRequestBody     bool
	LogRequestHeader   bool
	LogResponseBody    bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	Secret           string
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

// Server bundles the full service configuration. It is constructed once at
// process start and passed by reference to every component; no package reads
// the environment after this point.
type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Chain      ChainProfile
	Agent      AgentAccount
	Pipeline   Pipeline
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables.
func DefaultServiceConfigFromEnv() Server {
	util.DotEnvTryLoad(".env", util.SetEnvIfUnset)

	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableMetricsMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.GetEnv("SERVER_LOGGER_LEVEL", "info"),
			RequestLevel:       util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", "debug"),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: ManagementServer{
			Secret:           util.GetMgmtSecret("SERVER_MANAGEMENT_SECRET"),
			ReadinessTimeout: time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_READINESS_TIMEOUT_SEC", 4)),
			LivenessTimeout:  time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_LIVENESS_TIMEOUT_SEC", 9)),
		},
		Chain: ChainProfile{
			RPCURLs:         ParseRPCURLs(util.GetEnv("AGENT_RPC_URLS", "")),
			ChainID:         int64(util.GetEnvAsInt("AGENT_CHAIN_ID", 0)),
			VaultAddress:    common.HexToAddress(util.GetEnv("VAULT_ADDRESS", "")),
			StrategyAddress: common.HexToAddress(util.GetEnv("VRF_STRATEGY_ADDRESS", "")),
			USDCAddress:     common.HexToAddress(util.GetEnv("USDC_TOKEN_ADDRESS", "")),
			ExtraStrategies: ParseStrategyAddresses(util.GetEnv("AGENT_STRATEGY_ADDRESSES", "")),
		},
		Agent: AgentAccount{
			PrivateKey:         util.GetEnv("AGENT_PRIVATE_KEY", ""),
			Mnemonic:           util.GetEnv("AGENT_MNEMONIC", ""),
			DerivationPath:     util.GetEnv("AGENT_DERIVATION_PATH", "m/44'/60'/0'/0/0"),
			KeystoreFile:       util.GetEnv("AGENT_KEYSTORE_FILE", ""),
			KeystorePassphrase: util.GetEnv("AGENT_KEYSTORE_PASSPHRASE", ""),
		},
		Pipeline: Pipeline{
			ConfirmationTimeout: time.Second * time.Duration(util.GetEnvAsInt("AGENT_CONFIRM_TIMEOUT_SEC", 120)),
			PollInterval:        time.Second * time.Duration(util.GetEnvAsInt("AGENT_POLL_INTERVAL_SEC", 2)),
		},
	}
}

// ParseRPCURLs splits a comma-separated RPC URL list, dropping empty entries.
func ParseRPCURLs(rpcURL string) []string {
	if rpcURL == "" {
		return nil
	}

	urls := strings.Split(rpcURL, ",")
	result := make([]string, 0, len(urls))

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			result = append(result, url)
		}
	}

	return result
}

// ParseStrategyAddresses parses "name=0xaddr,name2=0xaddr2" pairs.
// Malformed entries are skipped rather than failing startup since extra
// strategies are optional.
func ParseStrategyAddresses(raw string) map[string]common.Address {
	result := map[string]common.Address{}
	if raw == "" {
		return result
	}

	for _, pair := range strings.Split(raw, ",") {
		name, addr, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || !common.IsHexAddress(addr) {
			continue
		}
		result[strings.TrimSpace(name)] = common.HexToAddress(addr)
	}

	return result
}

// Validate checks that the chain profile is complete enough to build and
// submit transactions. Missing mandatory values surface here, at startup.
func (c ChainProfile) Validate() error {
	switch {
	case len(c.RPCURLs) == 0:
		return ErrMissingRPCURLs
	case c.ChainID == 0:
		return ErrMissingChainID
	case c.VaultAddress == (common.Address{}):
		return ErrMissingVaultAddress
	case c.StrategyAddress == (common.Address{}):
		return ErrMissingStrategyAddress
	case c.USDCAddress == (common.Address{}):
		return ErrMissingUSDCAddress
	}
	return nil
}
