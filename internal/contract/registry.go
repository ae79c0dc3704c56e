package contract

import (
	_ "embed"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/prizevault/go-vault-agent/internal/config"
)

//go:embed abi/vault.json
var vaultABI string

//go:embed abi/mock_usdc.json
var usdcABI string

//go:embed abi/vrf_strategy.json
var strategyABI string

// Registry holds the bindings for one chain profile's deployed contract set.
// Extra strategies share the yield strategy interface.
type Registry struct {
	Vault    *Binding
	USDC     *Binding
	Strategy *Binding

	extra map[string]*Binding
}

// NewRegistry builds the bindings declared by the chain profile.
func NewRegistry(profile config.ChainProfile) (*Registry, error) {
	vault, err := NewBinding("Vault", profile.VaultAddress, vaultABI)
	if err != nil {
		return nil, err
	}

	usdc, err := NewBinding("MockUSDC", profile.USDCAddress, usdcABI)
	if err != nil {
		return nil, err
	}

	strategy, err := NewBinding("VrfYieldStrategy", profile.StrategyAddress, strategyABI)
	if err != nil {
		return nil, err
	}

	extra := make(map[string]*Binding, len(profile.ExtraStrategies))
	for name, address := range profile.ExtraStrategies {
		binding, err := NewBinding(name, address, strategyABI)
		if err != nil {
			return nil, err
		}
		extra[name] = binding
	}

	return &Registry{
		Vault:    vault,
		USDC:     usdc,
		Strategy: strategy,
		extra:    extra,
	}, nil
}

// Strategies returns all yield strategies, the primary VRF strategy included,
// keyed by name.
func (r *Registry) Strategies() map[string]*Binding {
	all := make(map[string]*Binding, len(r.extra)+1)
	all[r.Strategy.Name] = r.Strategy
	for name, binding := range r.extra {
		all[name] = binding
	}
	return all
}

// StrategyByName resolves a strategy by configured name or hex address.
func (r *Registry) StrategyByName(name string) (*Binding, error) {
	if name == r.Strategy.Name {
		return r.Strategy, nil
	}
	if binding, ok := r.extra[name]; ok {
		return binding, nil
	}
	if common.IsHexAddress(name) {
		return NewBinding(name, common.HexToAddress(name), strategyABI)
	}
	return nil, errors.Errorf("unknown strategy %q", name)
}
