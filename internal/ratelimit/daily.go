// Package ratelimit holds the process-wide daily request cap.
package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrLimitExceeded is returned once the day's quota is used up.
var ErrLimitExceeded = errors.New("daily request limit reached")

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// DailyCounter counts accepted requests per calendar day. State lives in
// memory only and is lost on restart.
type DailyCounter struct {
	mu    sync.Mutex
	day   string
	count int

	limit int
	loc   *time.Location
	now   Clock
}

// Usage is a point-in-time view of the counter.
type Usage struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}

// NewDailyCounter creates a counter allowing limit requests per day in
// loc. A nil loc means time.Local; a nil clock means time.Now.
func NewDailyCounter(limit int, loc *time.Location, clock Clock) *DailyCounter {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}

	c := &DailyCounter{limit: limit, loc: loc, now: clock}
	c.day = c.today()
	return c
}

func (c *DailyCounter) today() string {
	return c.now().In(c.loc).Format(time.DateOnly)
}

// rollover resets the count when the calendar day changed. Caller holds mu.
func (c *DailyCounter) rollover() {
	if d := c.today(); d != c.day {
		c.day = d
		c.count = 0
	}
}

// Allow records one request. Over the limit it returns ErrLimitExceeded
// and leaves the count unchanged.
func (c *DailyCounter) Allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollover()
	if c.count >= c.limit {
		return ErrLimitExceeded
	}
	c.count++
	return nil
}

// Snapshot returns the counter state for today.
func (c *DailyCounter) Snapshot() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollover()
	return Usage{Date: c.day, Count: c.count, Limit: c.limit}
}
