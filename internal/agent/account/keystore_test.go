package account_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/agent/account"
)

func TestKeystoreRoundTrip(t *testing.T) {
	ks, err := account.EncryptKey(testPrivateKey, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, 3, ks.Version)
	assert.Equal(t, "aes-128-ctr", ks.Crypto.Cipher)
	assert.Equal(t, "scrypt", ks.Crypto.KDF)

	recovered, err := account.DecryptKey(ks, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, testPrivateKey, recovered)
}

func TestKeystoreWrongPassphrase(t *testing.T) {
	ks, err := account.EncryptKey(testPrivateKey, "right")
	require.NoError(t, err)

	_, err = account.DecryptKey(ks, "wrong")
	require.ErrorContains(t, err, "MAC mismatch")
}

func TestKeystoreRejectsShortDerivedKey(t *testing.T) {
	ks, err := account.EncryptKey(testPrivateKey, "short-dklen")
	require.NoError(t, err)

	// a tampered or corrupt envelope must fail cleanly, not panic on the
	// MAC key slice
	ks.Crypto.KDFParams.DKLen = 16

	_, err = account.DecryptKey(ks, "short-dklen")
	require.ErrorContains(t, err, "dklen")
}

func TestLoadKeystoreFromFile(t *testing.T) {
	ks, err := account.EncryptKey(testPrivateKey, "file-pass")
	require.NoError(t, err)

	raw, err := json.Marshal(ks)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "agent.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	recovered, err := account.LoadKeystore(path, "file-pass")
	require.NoError(t, err)
	assert.Equal(t, testPrivateKey, recovered)
}

func TestLoadKeystoreMissingFile(t *testing.T) {
	_, err := account.LoadKeystore(filepath.Join(t.TempDir(), "nope.json"), "x")
	require.Error(t, err)
}
