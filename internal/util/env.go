package util

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad parses the given dotenv file if it exists and applies its
// pairs through the supplied setter. A missing file is not an error: local
// development uses .env, deployments configure the environment directly.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn func(k string, v string) error) {
	if _, err := os.Stat(absolutePathToEnvFile); os.IsNotExist(err) {
		return
	}

	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		log.Warn().Str("file", absolutePathToEnvFile).Err(err).Msg("Failed to open dotenv file")
		return
	}
	defer file.Close()

	pairs, err := gotenv.StrictParse(file)
	if err != nil {
		log.Warn().Str("file", absolutePathToEnvFile).Err(err).Msg("Failed to parse dotenv file")
		return
	}

	for k, v := range pairs {
		if err := setEnvFn(k, v); err != nil {
			log.Warn().Str("file", absolutePathToEnvFile).Str("key", k).Err(err).Msg("Failed to set env var")
		}
	}
}

// SetEnvIfUnset sets the key only when it is not already present in the
// environment, so real env vars always win over .env contents.
func SetEnvIfUnset(key string, value string) error {
	if _, present := os.LookupEnv(key); present {
		return nil
	}
	return os.Setenv(key, value)
}

// GetEnv returns the value of the environment variable with the given key, defaulting to defaultVal if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

// GetEnvAsInt returns the int value of the environment variable with the given key, defaulting to defaultVal if unset or unparsable.
func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsBool returns the bool value of the environment variable with the given key, defaulting to defaultVal if unset or unparsable.
func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetMgmtSecret returns the management secret from the environment, generating
// a random one when unset. A generated secret is logged as a hint, never
// reused across restarts, and thus only suitable for local development.
func GetMgmtSecret(envKey string) string {
	val := GetEnv(envKey, "")

	if len(val) > 0 {
		return val
	}

	const randomBytesLength = 16
	randomBytes := make([]byte, randomBytesLength)

	if _, err := rand.Read(randomBytes); err != nil {
		log.Panic().Err(err).Msg("Failed to generate random management secret")
	}

	generated := base64.URLEncoding.EncodeToString(randomBytes)
	log.Warn().Str("envKey", envKey).Msg("Management secret was not set, using a randomly generated one for this process lifetime")

	return generated
}
