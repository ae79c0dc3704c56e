package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/prizevault/go-vault-agent/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ONLY_FOR_TESTING_ENV", "true")

	assert.Equal(t, "true", util.GetEnv("TEST_ONLY_FOR_TESTING_ENV", "false"))
	assert.Equal(t, "fallback", util.GetEnv("THIS_KEY_SHOULD_NEVER_EXIST", "fallback"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_ONLY_FOR_TESTING_ENV", "120")

	assert.Equal(t, 120, util.GetEnvAsInt("TEST_ONLY_FOR_TESTING_ENV", 2))
	assert.Equal(t, 2, util.GetEnvAsInt("THIS_KEY_SHOULD_NEVER_EXIST", 2))

	t.Setenv("TEST_ONLY_FOR_TESTING_ENV", "not-a-number")
	assert.Equal(t, 2, util.GetEnvAsInt("TEST_ONLY_FOR_TESTING_ENV", 2))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_ONLY_FOR_TESTING_ENV", "TRUE")

	assert.True(t, util.GetEnvAsBool("TEST_ONLY_FOR_TESTING_ENV", false))
	assert.False(t, util.GetEnvAsBool("THIS_KEY_SHOULD_NEVER_EXIST", false))
}

func TestSetEnvIfUnset(t *testing.T) {
	t.Setenv("TEST_ONLY_FOR_TESTING_ENV", "original")

	require.NoError(t, util.SetEnvIfUnset("TEST_ONLY_FOR_TESTING_ENV", "overwritten"))
	assert.Equal(t, "original", util.GetEnv("TEST_ONLY_FOR_TESTING_ENV", ""))
}
