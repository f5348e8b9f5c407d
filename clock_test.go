package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClockMonotonicAcrossUpdates(t *testing.T) {
	var c clock
	first := c.update()
	require.Equal(t, first, c.cachedMs())

	for i := 0; i < 5; i++ {
		next := c.update()
		require.GreaterOrEqual(t, next, first, "clock went backwards")
		first = next
	}
}
