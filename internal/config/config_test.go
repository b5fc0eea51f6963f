package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpersDefaults(t *testing.T) {
	assert.Equal(t, "fallback", envStr("CFG_TEST_UNSET", "fallback"))
	assert.Equal(t, 42, envInt("CFG_TEST_UNSET", 42))
	assert.True(t, envBool("CFG_TEST_UNSET", true))
	assert.Equal(t, time.Minute, envDur("CFG_TEST_UNSET", time.Minute))
}

func TestEnvHelpersParse(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "value")
	t.Setenv("CFG_TEST_INT", "7")
	t.Setenv("CFG_TEST_BOOL", "yes")
	t.Setenv("CFG_TEST_DUR", "90s")

	assert.Equal(t, "value", envStr("CFG_TEST_STR", "fallback"))
	assert.Equal(t, 7, envInt("CFG_TEST_INT", 42))
	assert.True(t, envBool("CFG_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, envDur("CFG_TEST_DUR", time.Minute))
}

func TestEnvHelpersInvalidFallBack(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "not-a-number")
	t.Setenv("CFG_TEST_BOOL", "maybe")
	t.Setenv("CFG_TEST_DUR", "soon")

	assert.Equal(t, 42, envInt("CFG_TEST_INT", 42))
	assert.False(t, envBool("CFG_TEST_BOOL", false))
	assert.Equal(t, time.Minute, envDur("CFG_TEST_DUR", time.Minute))
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 10*time.Second, cfg.RefillInterval)
	// TTL is raised so idle buckets outlive several refill intervals.
	assert.Equal(t, 50*time.Second, cfg.TTL)
}
