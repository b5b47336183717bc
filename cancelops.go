// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

// Uncancelable runs fa against the uncancelable singleton connection,
// masking it from the caller's cancellation scope entirely (§4.5). Any
// cancel hooks fa itself installs are pushed onto the singleton, where
// Push/Pop/Cancel are all no-ops, so fa genuinely cannot be interrupted.
func Uncancelable[E, A any](fa Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			run(defaultRuntime(), uncancelableSingleton(), fa.n, nil, complete)
		},
	}}
}

// CancelBoundary completes with unit immediately if conn is not already
// canceled, and never completes otherwise — a synchronous check turned
// into a suspension point a surrounding Race or bracket can still tear
// down (§4.5).
func CancelBoundary[E any]() Effect[E, struct{}] {
	return Effect[E, struct{}]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			if conn.IsCanceled() {
				return
			}
			complete(valueOutcome(struct{}{}))
		},
	}}
}

// OnCancelRaiseError races fa's own completion against cancellation of the
// ambient connection: if the connection is cancelled before fa completes,
// the result is Left(onCancel()) instead of fa running to non-termination.
// This is the cancel-to-error boundary spec.md calls for, built without
// ever synthesizing a RaiseError node with a fabricated E value — the
// E value always comes from the caller's own onCancel (§9).
func OnCancelRaiseError[E, A any](fa Effect[E, A], onCancel func() E) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			deliver := newIdempotentCallback(complete)
			conn.Push(func() {
				deliver(errorOutcome(onCancel()))
			})
			run(defaultRuntime(), conn, fa.n, nil, func(o outcome) {
				conn.Pop()
				deliver(o)
			})
		},
	}}
}
