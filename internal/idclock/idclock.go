// Package idclock provides the id and timestamp source for list and task
// creation.
package idclock

import (
	"sync"
	"time"

	"tasklists/internal/liststore"
)

// DefaultLayout formats task creation timestamps.
const DefaultLayout = "2006-01-02 15:04:05"

// System derives ids from the wall clock in milliseconds. When two ids are
// requested within the same millisecond, or the clock steps backwards, the
// next id is the previous one plus one, so ids strictly increase.
type System struct {
	mu     sync.Mutex
	last   int64
	now    func() time.Time
	layout string
}

// New returns a System clock using time.Now. An empty layout selects
// DefaultLayout.
func New(layout string) *System {
	return NewWithSource(layout, time.Now)
}

// NewWithSource is New with an explicit time source.
func NewWithSource(layout string, now func() time.Time) *System {
	if layout == "" {
		layout = DefaultLayout
	}
	return &System{now: now, layout: layout}
}

// NextID implements liststore.Clock.
func (c *System) NextID() liststore.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return liststore.ID(id)
}

// Observe raises the floor for future ids above an id already in use.
func (c *System) Observe(id liststore.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int64(id) > c.last {
		c.last = int64(id)
	}
}

// Now implements liststore.Clock.
func (c *System) Now() string {
	return c.now().Format(c.layout)
}
