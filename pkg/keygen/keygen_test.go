package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountID(t *testing.T) {
	id, err := AccountID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "acc_"))
	assert.Len(t, id, 14)

	other, err := AccountID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestTradeID(t *testing.T) {
	id := TradeID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, TradeID())
}

func TestTransferIDIncreases(t *testing.T) {
	prev := TransferID()
	for i := 0; i < 100; i++ {
		next := TransferID()
		assert.Greater(t, next, prev)
		prev = next
	}
}
