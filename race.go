// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync/atomic"

// Race runs fa and fb concurrently, each on its own child Connection
// linked to the caller's; whichever completes first decides the result,
// and the loser's Connection is cancelled immediately (§4.7, S1/S2). A
// losing branch that goes on to fail anyway (having already been
// cancelled) has its error reported rather than silently dropped (§7).
func Race[E, A any](fa, fb Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			connA := NewConnection()
			connB := NewConnection()
			conn.Push(func() {
				connA.Cancel()
				connB.Cancel()
			})

			deliver := newIdempotentCallback(func(o outcome) {
				conn.Pop()
				complete(o)
			})

			var decided atomic.Bool
			winOrLog := func(other *Connection) func(outcome) {
				return func(o outcome) {
					if decided.CompareAndSwap(false, true) {
						other.Cancel()
						deliver(o)
						return
					}
					if o.isError {
						reportHostOrErased(o.err)
					}
				}
			}

			go run(defaultRuntime(), connA, fa.n, nil, winOrLog(connB))
			go run(defaultRuntime(), connB, fb.n, nil, winOrLog(connA))
		},
	}}
}

// RacePairResult is the outcome of RacePair: exactly one of the two
// (value, fiber-of-the-other) pairs is populated, discriminated by
// WonLeft. A concrete struct rather than an anonymous Either-of-tuples
// because Go has no sum types to encode that shape directly (§4 supplement).
type RacePairResult[E, A, B any] struct {
	WonLeft bool

	LeftValue  A
	RightFiber Fiber[E, B]

	RightValue B
	LeftFiber  Fiber[E, A]
}

// RacePair runs fa and fb concurrently without cancelling the loser: the
// winner's value is returned paired with a Fiber for whichever computation
// is still running (§4.7, S3). If the winner raises an error, that error
// propagates directly and the loser is left to run to completion unjoined,
// with its eventual error (if any) still reported rather than dropped.
func RacePair[E, A, B any](fa Effect[E, A], fb Effect[E, B]) Effect[E, RacePairResult[E, A, B]] {
	return Effect[E, RacePairResult[E, A, B]]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			connA := NewConnection()
			connB := NewConnection()
			conn.Push(func() {
				connA.Cancel()
				connB.Cancel()
			})

			slotA := &completionSlot[outcome]{}
			slotB := &completionSlot[outcome]{}
			var decided atomic.Bool
			deliver := newIdempotentCallback(func(o outcome) {
				conn.Pop()
				complete(o)
			})

			go run(defaultRuntime(), connA, fa.n, nil, slotA.complete)
			go run(defaultRuntime(), connB, fb.n, nil, slotB.complete)

			slotA.onComplete(func(o outcome) {
				if !decided.CompareAndSwap(false, true) {
					return
				}
				if o.isError {
					deliver(o)
					slotB.onComplete(func(lo outcome) {
						if lo.isError {
							reportHostOrErased(lo.err)
						}
					})
					return
				}
				result := RacePairResult[E, A, B]{
					WonLeft:    true,
					LeftValue:  o.value.(A),
					RightFiber: Fiber[E, B]{slot: slotB, conn: connB},
				}
				deliver(valueOutcome(result))
			})

			slotB.onComplete(func(o outcome) {
				if !decided.CompareAndSwap(false, true) {
					return
				}
				if o.isError {
					deliver(o)
					slotA.onComplete(func(lo outcome) {
						if lo.isError {
							reportHostOrErased(lo.err)
						}
					})
					return
				}
				result := RacePairResult[E, A, B]{
					WonLeft:    false,
					RightValue: o.value.(B),
					LeftFiber:  Fiber[E, A]{slot: slotA, conn: connA},
				}
				deliver(valueOutcome(result))
			})
		},
	}}
}
