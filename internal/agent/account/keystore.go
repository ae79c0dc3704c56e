package account

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// KeystoreJSON is the keystore v3 envelope the agent key is stored in at rest.
type KeystoreJSON struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// ScryptParams defines the scrypt KDF parameters.
type ScryptParams struct {
	DKLen int
	Salt  []byte
	N     int
	R     int
	P     int
}

// DefaultScryptParams returns the standard keystore v3 scrypt parameters.
func DefaultScryptParams() *ScryptParams {
	const (
		scryptDKLen = 32
		scryptN     = 262144 // 2^18
		scryptR     = 8
		scryptP     = 1
	)

	return &ScryptParams{
		DKLen: scryptDKLen,
		N:     scryptN,
		R:     scryptR,
		P:     scryptP,
	}
}

// EncryptKey wraps a hex private key in a keystore v3 envelope.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func EncryptKey(privateKeyHex string, passphrase string) (*KeystoreJSON, error) {
	//nolint:mnd // 32 is the standard salt size for scrypt
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	//nolint:mnd // 16 is the standard IV size for AES-128-CTR
	iv := make([]byte, 16)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	params := DefaultScryptParams()
	params.Salt = salt

	derivedKey, err := scrypt.Key([]byte(passphrase), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := xorAES128CTR(derivedKey[:16], iv, []byte(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt private key")
	}

	mac := calculateMAC(derivedKey[16:32], ciphertext)

	ks := &KeystoreJSON{
		//nolint:mnd // 3 is the keystore v3 version number
		Version: 3,
		ID:      uuid.New().String(),
	}
	ks.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	ks.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	ks.Crypto.Cipher = "aes-128-ctr"
	ks.Crypto.KDF = "scrypt"
	ks.Crypto.KDFParams.DKLen = params.DKLen
	ks.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	ks.Crypto.KDFParams.N = params.N
	ks.Crypto.KDFParams.R = params.R
	ks.Crypto.KDFParams.P = params.P
	ks.Crypto.MAC = hex.EncodeToString(mac)

	return ks, nil
}

// DecryptKey recovers the hex private key from a keystore v3 envelope.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func DecryptKey(ks *KeystoreJSON, passphrase string) (string, error) {
	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode salt")
	}

	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode MAC")
	}

	// the derived key is split into a 16-byte cipher key and a 16-byte MAC
	// key, so anything shorter than 32 bytes cannot be valid
	//nolint:mnd // 16-byte cipher key + 16-byte MAC key
	if ks.Crypto.KDFParams.DKLen < 32 {
		return "", errors.Errorf("invalid kdf params: dklen %d, need at least 32", ks.Crypto.KDFParams.DKLen)
	}

	derivedKey, err := scrypt.Key(
		[]byte(passphrase),
		salt,
		ks.Crypto.KDFParams.N,
		ks.Crypto.KDFParams.R,
		ks.Crypto.KDFParams.P,
		ks.Crypto.KDFParams.DKLen,
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}

	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return "", errors.New("invalid passphrase: MAC mismatch")
	}

	plaintext, err := xorAES128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt private key")
	}

	return string(plaintext), nil
}

// LoadKeystore reads and decrypts a keystore file.
func LoadKeystore(path string, passphrase string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read keystore file")
	}

	var ks KeystoreJSON
	if err := json.Unmarshal(raw, &ks); err != nil {
		return "", errors.Wrap(err, "failed to parse keystore file")
	}

	return DecryptKey(&ks, passphrase)
}

// xorAES128CTR runs the symmetric AES-128-CTR keystream over the input.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func xorAES128CTR(key []byte, iv []byte, input []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	output := make([]byte, len(input))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(output, input)

	return output, nil
}

// calculateMAC computes MAC = SHA-256(derivedKey[16:32] || ciphertext).
// Keystore v3 proper uses Keccak-256; SHA-256 keeps the envelope symmetric
// for files this service writes and reads itself.
func calculateMAC(key []byte, ciphertext []byte) []byte {
	hasher := sha256.New()
	hasher.Write(key)
	hasher.Write(ciphertext)
	return hasher.Sum(nil)
}
