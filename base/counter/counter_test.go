package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	c := NewCounter()
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(2)
			c.Add(-1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Count())
	assert.Equal(t, 49, c.Add(-1))
}
