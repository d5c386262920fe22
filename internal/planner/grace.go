package planner

import (
	"sync"
	"time"
)

// Grace defers the real application of a confirmed plan behind a short
// window. Cancelling within the window stops the timer and nothing is ever
// applied; after the window, undo means a compensating action instead.
//
// Callers are expected to serialize commands (single command in flight), so
// at most one apply is ever pending.
type Grace struct {
	Delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	apply func()
}

// Schedule queues apply after the grace delay. With no delay configured it
// runs immediately. Reports whether the apply was deferred.
func (g *Grace) Schedule(apply func()) bool {
	if g.Delay <= 0 {
		apply()
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apply = apply
	g.timer = time.AfterFunc(g.Delay, func() {
		g.mu.Lock()
		fn := g.apply
		g.apply = nil
		g.timer = nil
		g.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	return true
}

// Cancel stops a pending apply before it ran. True means the window was
// still open and the side effect never happened.
func (g *Grace) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.apply == nil {
		return false
	}
	g.timer.Stop()
	g.apply = nil
	g.timer = nil
	return true
}

// Pending reports whether an apply is still waiting out its grace window.
func (g *Grace) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apply != nil
}

// Flush runs a pending apply immediately, closing the undo window early.
func (g *Grace) Flush() {
	g.mu.Lock()
	fn := g.apply
	if g.timer != nil {
		g.timer.Stop()
	}
	g.apply = nil
	g.timer = nil
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}
