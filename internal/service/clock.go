package service

import (
	"sync"
	"time"
)

// Clock is one side's remaining thinking time.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// TimeLeft never goes below zero.
func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) Flagged() bool {
	return c.TimeLeft() == 0
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
