package services

import (
	"sync"
	"time"
)

// monotonicClock hands out UTC timestamps at microsecond precision, the
// precision of the message store, that never go backwards even if the wall
// clock does.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newMonotonicClock() *monotonicClock {
	return &monotonicClock{now: time.Now}
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}
