// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync"

// Connection is the cancellation scope a running effect is attached to
// (§4.2). Cancellation is cooperative: Cancel marks the connection
// cancelled, then invokes every hook currently pushed, most-recently-pushed
// first; any hook pushed afterwards runs immediately instead of queuing.
type Connection struct {
	mu       sync.Mutex
	canceled bool
	hooks    []func()
}

// NewConnection returns a fresh, live, cancelable Connection.
func NewConnection() *Connection { return &Connection{} }

var uncancelableConnection = &Connection{}

// uncancelableSingleton returns the singleton connection on which Cancel, Push and
// Pop are all no-ops and IsCanceled is always false (§4.5).
func uncancelableSingleton() *Connection { return uncancelableConnection }

// Push installs a cancellation hook. If the connection is already
// cancelled, action runs immediately instead of being queued (§4.2
// invariant: a hook pushed after cancellation must still observe it).
func (c *Connection) Push(action func()) {
	if c == uncancelableConnection {
		return
	}
	c.mu.Lock()
	if c.canceled {
		c.mu.Unlock()
		action()
		return
	}
	c.hooks = append(c.hooks, action)
	c.mu.Unlock()
}

// Pop removes the most recently pushed hook without running it.
func (c *Connection) Pop() {
	if c == uncancelableConnection {
		return
	}
	c.mu.Lock()
	if n := len(c.hooks); n > 0 {
		c.hooks = c.hooks[:n-1]
	}
	c.mu.Unlock()
}

// Cancel marks the connection cancelled and runs every currently installed
// hook, most-recently-pushed first. Idempotent: a second Cancel call is a
// no-op (§4.2 invariant — cancellation fires at most once).
func (c *Connection) Cancel() {
	if c == uncancelableConnection {
		return
	}
	c.mu.Lock()
	if c.canceled {
		c.mu.Unlock()
		return
	}
	c.canceled = true
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// IsCanceled reports whether Cancel has already run.
func (c *Connection) IsCanceled() bool {
	if c == uncancelableConnection {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// forwardCancel lets a register callback install its eventual cancel
// action after already pushing a placeholder hook, so a Cancel racing with
// register's own setup never observes a missing hook (§4.3, Cancelable).
type forwardCancel struct {
	mu     sync.Mutex
	action func()
	fired  bool
}

func newForwardCancel() *forwardCancel { return &forwardCancel{} }

func (f *forwardCancel) set(action func()) {
	f.mu.Lock()
	if f.fired {
		f.mu.Unlock()
		action()
		return
	}
	f.action = action
	f.mu.Unlock()
}

func (f *forwardCancel) run() {
	f.mu.Lock()
	f.fired = true
	action := f.action
	f.action = nil
	f.mu.Unlock()
	if action != nil {
		action()
	}
}
