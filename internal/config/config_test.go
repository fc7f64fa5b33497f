package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Raffle.EntryFee)
	assert.Equal(t, 3, cfg.Raffle.MinPlayers)
	assert.Equal(t, 60*time.Second, cfg.Raffle.Cooldown)
	assert.Equal(t, int64(10), cfg.Raffle.JackpotFeeDivisor)
	assert.Equal(t, int64(90), cfg.Raffle.PrizePercent)
	assert.Equal(t, int64(100), cfg.Raffle.JackpotChanceBP)
	assert.Equal(t, int64(90), cfg.Raffle.CancelRefundPercent)
	assert.Equal(t, 2, cfg.Oracle.WordCount)
	assert.True(t, cfg.Oracle.MockOracle)
	assert.True(t, cfg.FeeLedger.MockLedger)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.Interval)
}
