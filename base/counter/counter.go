package counter

import "sync"

// Counter is a goroutine safe gauge, e.g. number of live actors
type Counter struct {
	count int
	mu    sync.RWMutex
}

func NewCounter() *Counter {
	return &Counter{}
}

// Add adds val and returns the new count
func (c *Counter) Add(val int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count += val
	return c.count
}

func (c *Counter) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
