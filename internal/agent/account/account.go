package account

import (
	"context"
	"crypto/ecdsa"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"github/prizevault/go-vault-agent/internal/config"
)

// NonceSource provides the chain's view of an account's next nonce.
type NonceSource interface {
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
}

// Account holds the agent's signing key and owns its nonce sequence. It is
// created once at process start and shared; nonce allocation is serialized so
// concurrent callers can never build two transactions with the same nonce.
type Account struct {
	address    common.Address
	privateKey *ecdsa.PrivateKey

	mu     sync.Mutex
	next   uint64
	synced bool
}

// New creates an Account from an ECDSA private key.
func New(privateKey *ecdsa.PrivateKey) *Account {
	return &Account{
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		privateKey: privateKey,
	}
}

// NewFromConfig sources the signing key as configured: a raw hex key, a BIP39
// mnemonic with a BIP44 derivation path, or an encrypted keystore file.
func NewFromConfig(cfg config.AgentAccount) (*Account, error) {
	switch {
	case cfg.PrivateKey != "":
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse AGENT_PRIVATE_KEY")
		}
		return New(key), nil

	case cfg.Mnemonic != "":
		key, err := deriveKey(cfg.Mnemonic, cfg.DerivationPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive key from AGENT_MNEMONIC")
		}
		return New(key), nil

	case cfg.KeystoreFile != "":
		keyHex, err := LoadKeystore(cfg.KeystoreFile, cfg.KeystorePassphrase)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open AGENT_KEYSTORE_FILE")
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse keystore private key")
		}
		return New(key), nil
	}

	return nil, errors.New("no agent key configured: set AGENT_PRIVATE_KEY, AGENT_MNEMONIC or AGENT_KEYSTORE_FILE")
}

// Address returns the address derived from the signing key.
func (a *Account) Address() common.Address {
	return a.address
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Callers must not retain the slice longer than the signing operation.
func (a *Account) PrivateKeyBytes() []byte {
	return crypto.FromECDSA(a.privateKey)
}

// NextNonce reserves the next nonce for this account. The first allocation
// syncs with the chain's pending nonce; subsequent ones increment locally
// under the lock, which is what upholds mutual exclusion between concurrent
// submitters.
func (a *Account) NextNonce(ctx context.Context, src NonceSource) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.synced {
		pending, err := src.PendingNonceAt(ctx, a.address)
		if err != nil {
			return 0, errors.Wrap(err, "failed to fetch pending nonce")
		}
		a.next = pending
		a.synced = true
	}

	nonce := a.next
	a.next++
	return nonce, nil
}

// ReturnNonce hands back a reserved nonce that was never broadcast, so the
// sequence stays gapless. Only the most recent reservation can be returned.
func (a *Account) ReturnNonce(nonce uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.synced && nonce+1 == a.next {
		a.next = nonce
	}
}

// ResyncNonce drops the local counter so the next allocation re-reads the
// chain. Called after a "nonce too low" rejection.
func (a *Account) ResyncNonce() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.synced = false
}

func deriveKey(mnemonic string, path string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")

	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	indices, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	key := masterKey
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return crypto.ToECDSA(key.Key)
}

// parsePath parses a BIP44 path like "m/44'/60'/0'/0/0" into child indices.
func parsePath(path string) ([]uint32, error) {
	if !strings.HasPrefix(path, "m/") {
		return nil, errors.Errorf("invalid derivation path: %s", path)
	}

	parts := strings.Split(strings.TrimPrefix(path, "m/"), "/")
	indices := make([]uint32, 0, len(parts))

	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'")
		part = strings.TrimSuffix(part, "'")

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Errorf("invalid derivation path segment: %s", part)
		}

		if hardened {
			index += uint64(bip32.FirstHardenedChild)
		}

		indices = append(indices, uint32(index))
	}

	return indices, nil
}
