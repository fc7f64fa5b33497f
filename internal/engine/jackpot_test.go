package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJackpotPoolContributeAndDrain(t *testing.T) {
	var pool JackpotPool

	pool.Contribute(1)
	pool.Contribute(2)
	assert.Equal(t, int64(3), pool.Balance())

	assert.Equal(t, int64(3), pool.Drain())
	assert.Zero(t, pool.Balance())
	assert.Zero(t, pool.Drain())
}

func TestJackpotPoolIgnoresNonPositiveAmounts(t *testing.T) {
	var pool JackpotPool

	pool.Contribute(0)
	pool.Contribute(-5)
	assert.Zero(t, pool.Balance())
}
