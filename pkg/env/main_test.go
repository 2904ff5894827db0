package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredValueMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	var token string
	assert.False(t, BotToken(&token))
	assert.Empty(t, token)
}

func TestRequiredValuePresent(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	var token string
	assert.True(t, BotToken(&token))
	assert.Equal(t, "123:abc", token)
}

func TestSweepIntervalSeconds(t *testing.T) {
	var seconds int64

	t.Setenv("SWEEP_INTERVAL_SECONDS", "")
	assert.False(t, SweepIntervalSeconds(&seconds))

	t.Setenv("SWEEP_INTERVAL_SECONDS", "ten")
	assert.False(t, SweepIntervalSeconds(&seconds))

	t.Setenv("SWEEP_INTERVAL_SECONDS", "120")
	assert.True(t, SweepIntervalSeconds(&seconds))
	assert.Equal(t, int64(120), seconds)
}

func TestOptionalValueNotLogged(t *testing.T) {
	t.Setenv("DIGEST_CRON", "")

	cron := "0 9 * * *"
	assert.False(t, DigestCron(&cron))
	assert.Equal(t, "0 9 * * *", cron, "default must survive a missing override")
}
