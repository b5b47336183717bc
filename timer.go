// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "time"

// Timer is the platform collaborator the core run loop consumes but never
// implements itself (§6): Shift yields control back to the executor before
// resuming, Sleep suspends for a duration. Sleep is cancelable: cancelling
// stops its timer and leaves it non-terminating. Shift installs no cancel
// hook; once registered, its goroutine hop always completes.
type Timer interface {
	Shift() Effect[any, struct{}]
	Sleep(d time.Duration) Effect[any, struct{}]
}

type goTimer struct{}

// NewGoTimer returns the default Timer, backed by time.AfterFunc and a
// zero-delay goroutine hop for Shift.
func NewGoTimer() Timer { return goTimer{} }

func (goTimer) Shift() Effect[any, struct{}] {
	return Effect[any, struct{}]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			go complete(valueOutcome(struct{}{}))
		},
	}}
}

func (goTimer) Sleep(d time.Duration) Effect[any, struct{}] {
	return Effect[any, struct{}]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			deliver := newIdempotentCallback(complete)
			timer := time.AfterFunc(d, func() {
				deliver(valueOutcome(struct{}{}))
			})
			// On cancel the timer is stopped and deliver is left unused:
			// Sleep becomes non-terminating rather than synthesizing a
			// sentinel error value of the generic E channel (§9).
			conn.Push(func() {
				timer.Stop()
			})
		},
	}}
}
