//go:build tools
// +build tools

package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

func main() {
	var (
		txHash  = flag.String("tx", "", "Transaction hash to check")
		chainID = flag.Int64("chain", 0, "Expected chain ID")
		rpcURL  = flag.String("rpc", "", "RPC URL for blockchain")
	)
	flag.Parse()

	if *txHash == "" || *rpcURL == "" {
		fmt.Println("Error: -tx and -rpc are required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := ethclient.Dial(*rpcURL)
	if err != nil {
		fmt.Printf("Error connecting to RPC: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	txHashBytes := common.HexToHash(*txHash)
	tx, isPending, err := client.TransactionByHash(ctx, txHashBytes)
	if err != nil {
		fmt.Printf("Error getting transaction: %v\n", err)
		os.Exit(1)
	}

	if isPending {
		fmt.Println("Transaction is still pending")
		os.Exit(1)
	}

	receipt, err := client.TransactionReceipt(ctx, txHashBytes)
	if err != nil {
		fmt.Printf("Error getting receipt: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transaction Hash: %s\n", *txHash)
	fmt.Printf("Block Number: %s\n", receipt.BlockNumber.String())
	if receipt.Status == types.ReceiptStatusSuccessful {
		fmt.Println("Status: SUCCESS")
	} else {
		fmt.Println("Status: REVERTED")
	}
	fmt.Printf("Gas Used: %d\n", receipt.GasUsed)
	fmt.Printf("Effective Gas Price: %s wei\n", receipt.EffectiveGasPrice.String())
	fmt.Println()

	// Analyze transaction
	if *chainID != 0 {
		chainIDBig := big.NewInt(*chainID)
		from, err := types.Sender(types.LatestSignerForChainID(chainIDBig), tx)
		if err != nil {
			fmt.Printf("Error getting sender: %v\n", err)
		} else {
			fmt.Printf("From: %s\n", strings.ToLower(from.Hex()))
		}
	}

	to := tx.To()
	if to != nil {
		fmt.Printf("To: %s\n", strings.ToLower(to.Hex()))
	} else {
		fmt.Println("To: Contract Creation")
	}

	fmt.Printf("Value: %s wei\n", tx.Value().String())
	if len(tx.Data()) >= 4 {
		fmt.Printf("Method Selector: 0x%x\n", tx.Data()[:4])
	}
	fmt.Println()

	// Check ERC20 transfers
	fmt.Println("Checking ERC20 Transfer events...")
	transferEventSig := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	foundERC20 := false

	for i, logEntry := range receipt.Logs {
		if len(logEntry.Topics) < 3 {
			continue
		}

		if logEntry.Topics[0] == transferEventSig {
			foundERC20 = true
			fromAddr := common.BytesToAddress(logEntry.Topics[1].Bytes())
			toAddr := common.BytesToAddress(logEntry.Topics[2].Bytes())
			amount := new(big.Int).SetBytes(logEntry.Data)
			tokenAddr := logEntry.Address.Hex()

			fmt.Printf("  Log #%d: ERC20 Transfer\n", i)
			fmt.Printf("    Token: %s\n", strings.ToLower(tokenAddr))
			fmt.Printf("    From: %s\n", strings.ToLower(fromAddr.Hex()))
			fmt.Printf("    To: %s\n", strings.ToLower(toAddr.Hex()))
			fmt.Printf("    Amount: %s\n", amount.String())
			fmt.Println()
		}
	}

	if !foundERC20 {
		fmt.Println("  No ERC20 Transfer events found")
	}
}
