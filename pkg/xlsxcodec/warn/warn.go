// Package warn collects the soft failures reported while reading and writing.
package warn

import (
	"fmt"
	"log"
	"sync"
)

// Sink receives warnings.
type Sink interface {
	Warnf(format string, args ...any)
}

// Discard drops every warning.
var Discard Sink = discard{}

type discard struct{}

func (discard) Warnf(string, ...any) {}

// Collector accumulates warnings in order.
type Collector struct {
	// Max caps the number of kept messages, 0 means unlimited.
	Max int
	// Logger, when set, receives each kept message as it arrives.
	Logger *log.Logger
	// Dropped counts messages beyond Max.
	Dropped int

	mu       sync.Mutex
	messages []string
}

// NewCollector creates a collector.
func NewCollector(max int, logger *log.Logger) *Collector {
	return &Collector{Max: max, Logger: logger}
}

// Warnf records a formatted warning.
func (c *Collector) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Max > 0 && len(c.messages) >= c.Max {
		c.Dropped++
		return
	}
	c.messages = append(c.messages, msg)
	if c.Logger != nil {
		c.Logger.Print(msg)
	}
}

// Messages returns a copy of the collected warnings.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Prefixed wraps a sink and prepends a location computed at each call.
type Prefixed struct {
	Sink     Sink
	Location func() string
}

// Warnf forwards the message with its location prefix.
func (p Prefixed) Warnf(format string, args ...any) {
	loc := ""
	if p.Location != nil {
		loc = p.Location()
	}
	if loc == "" {
		p.Sink.Warnf(format, args...)
		return
	}
	p.Sink.Warnf("%s : %s", loc, fmt.Sprintf(format, args...))
}
