package config_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/config"
)

func TestParseRPCURLs(t *testing.T) {
	assert.Nil(t, config.ParseRPCURLs(""))

	assert.Equal(t,
		[]string{"https://testnet.aurora.dev"},
		config.ParseRPCURLs("https://testnet.aurora.dev"))

	assert.Equal(t,
		[]string{"https://testnet.aurora.dev", "https://testnet.evm.nodes.onflow.org"},
		config.ParseRPCURLs(" https://testnet.aurora.dev , https://testnet.evm.nodes.onflow.org ,"))
}

func TestParseStrategyAddresses(t *testing.T) {
	assert.Empty(t, config.ParseStrategyAddresses(""))

	parsed := config.ParseStrategyAddresses(
		"aurora-lending=0x8A791620dd6260079BF849Dc5567aDC3F2FdC318, flow-staking=0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc")
	require.Len(t, parsed, 2)
	assert.Equal(t, common.HexToAddress("0x8A791620dd6260079BF849Dc5567aDC3F2FdC318"), parsed["aurora-lending"])
	assert.Equal(t, common.HexToAddress("0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc"), parsed["flow-staking"])

	// malformed entries are skipped, not fatal
	parsed = config.ParseStrategyAddresses("broken,=0x1,name=notanaddress,ok=0x8A791620dd6260079BF849Dc5567aDC3F2FdC318")
	require.Len(t, parsed, 1)
	assert.Contains(t, parsed, "ok")
}

func TestChainProfileValidate(t *testing.T) {
	valid := config.ChainProfile{
		RPCURLs:         []string{"https://testnet.aurora.dev"},
		ChainID:         1313161555,
		VaultAddress:    common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		StrategyAddress: common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
		USDCAddress:     common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"),
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.RPCURLs = nil
	require.ErrorIs(t, missing.Validate(), config.ErrMissingRPCURLs)

	missing = valid
	missing.ChainID = 0
	require.ErrorIs(t, missing.Validate(), config.ErrMissingChainID)

	missing = valid
	missing.VaultAddress = common.Address{}
	require.ErrorIs(t, missing.Validate(), config.ErrMissingVaultAddress)

	missing = valid
	missing.StrategyAddress = common.Address{}
	require.ErrorIs(t, missing.Validate(), config.ErrMissingStrategyAddress)

	missing = valid
	missing.USDCAddress = common.Address{}
	require.ErrorIs(t, missing.Validate(), config.ErrMissingUSDCAddress)
}
