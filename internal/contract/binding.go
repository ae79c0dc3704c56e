package contract

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrMethodNotFound means the method is not declared in the contract's interface description.
	ErrMethodNotFound = errors.New("method not found in contract ABI")

	// ErrEncoding means the supplied arguments do not match the declared parameter types.
	ErrEncoding = errors.New("failed to encode contract call")

	// ErrNotView means a mutating method was used where a read-only one is required, or vice versa.
	ErrNotView = errors.New("method mutability does not match call site")
)

// ChainReader is the read-only chain access a Binding needs for view calls.
type ChainReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Binding is a typed proxy over one deployed contract, built from its static
// interface description. It encodes calls and decodes results; it never
// submits anything itself.
type Binding struct {
	Name    string
	Address common.Address

	parsed abi.ABI
}

// NewBinding parses the ABI document and binds it to the deployed address.
func NewBinding(name string, address common.Address, abiJSON string) (*Binding, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse ABI for contract %s", name)
	}

	return &Binding{
		Name:    name,
		Address: address,
		parsed:  parsed,
	}, nil
}

// IsView reports whether the method is declared read-only (view/pure).
func (b *Binding) IsView(method string) (bool, error) {
	m, ok := b.parsed.Methods[method]
	if !ok {
		return false, errors.Wrapf(ErrMethodNotFound, "%s.%s", b.Name, method)
	}
	return m.StateMutability == "view" || m.StateMutability == "pure", nil
}

// Pack encodes a method call into call data.
func (b *Binding) Pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := b.parsed.Methods[method]; !ok {
		return nil, errors.Wrapf(ErrMethodNotFound, "%s.%s", b.Name, method)
	}

	data, err := b.parsed.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrEncoding, "%s.%s: %v", b.Name, method, err)
	}

	return data, nil
}

// Unpack decodes the raw return data of a method call.
func (b *Binding) Unpack(method string, data []byte) ([]interface{}, error) {
	values, err := b.parsed.Unpack(method, data)
	if err != nil {
		return nil, errors.Wrapf(ErrEncoding, "%s.%s result: %v", b.Name, method, err)
	}

	return values, nil
}

// View executes a read-only method and decodes its results. Mutating methods
// are rejected here so state changes can only flow through the pipeline.
func (b *Binding) View(ctx context.Context, reader ChainReader, method string, args ...interface{}) ([]interface{}, error) {
	isView, err := b.IsView(method)
	if err != nil {
		return nil, err
	}
	if !isView {
		return nil, errors.Wrapf(ErrNotView, "%s.%s is mutating", b.Name, method)
	}

	data, err := b.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	to := b.Address
	result, err := reader.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data})
	if err != nil {
		return nil, errors.Wrapf(err, "view call %s.%s failed", b.Name, method)
	}

	return b.Unpack(method, result)
}
