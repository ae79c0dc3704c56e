//go:build tools
// +build tools

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github/prizevault/go-vault-agent/internal/api"
	"github/prizevault/go-vault-agent/internal/config"
	"github/prizevault/go-vault-agent/internal/util/command"
)

func main() {
	var (
		amountFlag = flag.String("amount", "150", "USDC amount to mint and deposit as yield")
	)
	flag.Parse()

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil || !amount.IsPositive() {
		fmt.Printf("Error: invalid amount %q\n", *amountFlag)
		os.Exit(1)
	}

	cfg := config.DefaultServiceConfigFromEnv()
	ctx := context.Background()

	err = command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		result, err := s.Vault.SimulateYieldHarvest(ctx, amount)
		if result != nil {
			fmt.Printf("Sequence %s: %s\n", result.ID, result.State)
			for _, step := range result.Steps {
				fmt.Printf("  %-18s %-10s tx=%s block=%d gas=%d\n",
					step.Name, step.State, step.TxHash.Hex(), step.BlockNumber, step.GasUsed)
			}
		}
		return err
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Harvested %s USDC of simulated yield\n", amount.String())
}
