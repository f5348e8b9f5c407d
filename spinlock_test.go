package reactor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpinlockMutualExclusion(t *testing.T) {
	var l spinlock
	counter := 0

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			l.lock()
			counter++
			l.unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, n, counter, "lost increments indicate a broken lock")
}
