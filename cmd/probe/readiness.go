package probe

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/prizevault/go-vault-agent/internal/config"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs the readiness probe against the local server",
		Long: `Probes the management readiness endpoint of the server
running on this host. Exits non-zero when the server is not ready.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse flags")
			}

			runReadinessProbe(verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}

func runReadinessProbe(verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	probeURL := fmt.Sprintf("http://localhost%s/-/ready", cfg.Echo.ListenAddress)

	runProbe(probeURL, cfg.Management.ReadinessTimeout, verbose)
}

// runProbe issues the HTTP probe and exits the process with the probe result.
func runProbe(probeURL string, timeout time.Duration, verbose bool) {
	client := &http.Client{Timeout: timeout}

	res, err := client.Get(probeURL)
	if err != nil {
		log.Error().Err(err).Msg("Probe request failed")
		os.Exit(1)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read probe response")
		os.Exit(1)
	}

	if verbose {
		fmt.Println(string(body))
	}

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Msg("Probe failed")
		os.Exit(1)
	}

	os.Exit(0)
}
