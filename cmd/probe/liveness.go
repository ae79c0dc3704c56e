package probe

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/prizevault/go-vault-agent/internal/config"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs the liveness probe against the local server",
		Long: `Probes the management liveness endpoint of the server
running on this host. Exits non-zero when the server is not live.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse flags")
			}

			runLivenessProbe(verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}

func runLivenessProbe(verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	query := url.Values{}
	query.Set("mgmt-secret", cfg.Management.Secret)

	probeURL := fmt.Sprintf("http://localhost%s/-/healthy?%s", cfg.Echo.ListenAddress, query.Encode())

	runProbe(probeURL, cfg.Management.LivenessTimeout, verbose)
}
