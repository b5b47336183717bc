// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "time"

// UnsafeRunAsync starts fa on a fresh cancelable Connection and invokes cb
// with its outcome whenever it completes, possibly never (§5). rt may be
// nil to use DefaultRuntime. Returns the Connection so the caller can
// cancel the run.
func UnsafeRunAsync[E, A any](fa Effect[E, A], rt *Runtime, cb func(Either[E, A])) *Connection {
	conn := NewConnection()
	r := resolveRuntime(rt)
	run(r, conn, fa.n, nil, func(o outcome) {
		cb(outcomeToEither[E, A](o))
	})
	return conn
}

// UnsafeRunCancelable is UnsafeRunAsync against a caller-supplied
// Connection, for composing a run into a larger cancellation scope.
func UnsafeRunCancelable[E, A any](fa Effect[E, A], conn *Connection, rt *Runtime, cb func(Either[E, A])) {
	r := resolveRuntime(rt)
	run(r, conn, fa.n, nil, func(o outcome) {
		cb(outcomeToEither[E, A](o))
	})
}

// UnsafeRunSync blocks the calling goroutine until fa completes, returning
// its outcome. It must not be called from inside an Async register or Bind
// continuation of a run already in progress on the same Executor (§5) — it
// synchronizes via its own channel, outside the trampoline.
func UnsafeRunSync[E, A any](fa Effect[E, A], rt *Runtime) Either[E, A] {
	ch := make(chan outcome, 1)
	r := resolveRuntime(rt)
	run(r, NewConnection(), fa.n, nil, func(o outcome) { ch <- o })
	return outcomeToEither[E, A](<-ch)
}

// UnsafeRunTimed drives fa via step, bounding *each* Async node it suspends
// on by timeout rather than bounding fa's total running time (§4.1, §9):
// a run that suspends repeatedly, each hop resolving well inside timeout,
// completes no matter how long it takes overall; a run stuck on any single
// Async node for longer than timeout reports (zero, false) and cancels the
// run's connection. The cancellation hooks installed by fa's effects run
// before UnsafeRunTimed returns; cancel effects those hooks start in the
// background (such as Cancelable's) may still be running afterward.
func UnsafeRunTimed[E, A any](fa Effect[E, A], timeout time.Duration, rt *Runtime) (Either[E, A], bool) {
	conn := NewConnection()
	r := resolveRuntime(rt)
	o, ok := stepTimed(r, conn, fa.n, nil, timeout)
	if !ok {
		conn.Cancel()
		var zero Either[E, A]
		return zero, false
	}
	return outcomeToEither[E, A](o), true
}
