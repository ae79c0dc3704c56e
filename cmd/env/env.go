package env

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/prizevault/go-vault-agent/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the parsed server configuration",
		Long: `Prints the configuration as resolved from the environment.
Secrets and key material are redacted.`,
		Run: func(_ *cobra.Command, _ []string) {
			printConfig()
		},
	}
}

func printConfig() {
	cfg := config.DefaultServiceConfigFromEnv()

	// never echo key material back out
	cfg.Management.Secret = redact(cfg.Management.Secret)
	cfg.Agent.PrivateKey = redact(cfg.Agent.PrivateKey)
	cfg.Agent.Mnemonic = redact(cfg.Agent.Mnemonic)
	cfg.Agent.KeystorePassphrase = redact(cfg.Agent.KeystorePassphrase)

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config")
		os.Exit(1)
	}

	fmt.Println(string(out))
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return "[redacted]"
}
