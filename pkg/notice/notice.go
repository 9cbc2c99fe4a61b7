// Package notice carries short user-facing messages from the API client,
// the session store and the router to whatever is drawing the screen.
package notice

import (
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

// Notice is a single user-facing message.
type Notice struct {
	Level Level
	Text  string
	At    time.Time
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(level Level, text string)
}

// Func adapts a plain function to Notifier.
type Func func(level Level, text string)

func (f Func) Notify(level Level, text string) { f(level, text) }

// Discard drops every notice.
var Discard Notifier = Func(func(Level, string) {})

// Feed is a bounded in-memory notice queue. Producers never block: when the
// queue is full the oldest notice is dropped.
type Feed struct {
	mu    sync.Mutex
	items []Notice
	max   int
	ch    chan struct{}
	now   func() time.Time
}

// NewFeed creates a feed holding at most max notices.
func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 16
	}
	return &Feed{max: max, ch: make(chan struct{}, 1), now: time.Now}
}

// Notify appends a notice and wakes a pending Wait.
func (f *Feed) Notify(level Level, text string) {
	if text == "" {
		return
	}
	f.mu.Lock()
	f.items = append(f.items, Notice{Level: level, Text: text, At: f.now()})
	if len(f.items) > f.max {
		f.items = f.items[len(f.items)-f.max:]
	}
	f.mu.Unlock()

	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// Drain returns and removes every queued notice, oldest first.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

// Wait returns a channel that receives after at least one Notify since the last wake.
func (f *Feed) Wait() <-chan struct{} {
	return f.ch
}
