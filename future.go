// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

// Future[A] is the minimal boundary a foreign async primitive (a promise,
// a completion-based callback API) must satisfy to be lifted into an
// Effect. Kept abstract per spec.md §6: no concrete promise implementation
// is assumed, mirroring the teacher's own Reify/Reflect boundary between
// Cont and Expr, generalised here to an arbitrary external type.
type Future[A any] interface {
	OnComplete(func(A, error))
}

// FromFuture lifts a Future into an Effect: register relays the Future's
// completion, converting a non-nil host fault through errMap exactly as
// Delay does (§7).
func FromFuture[E, A any](f Future[A], errMap func(error) E) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			deliver := newIdempotentCallback(complete)
			f.OnComplete(func(a A, err error) {
				if err != nil {
					deliver(errorOutcome(errMap(err)))
					return
				}
				deliver(valueOutcome(a))
			})
		},
	}}
}

// unsafeFuture adapts an Effect run to the Future interface, for handing
// an Effect to code that only understands the foreign boundary.
type unsafeFuture[E, A any] struct {
	conn   *Connection
	listen func(func(A, error))
}

func (f *unsafeFuture[E, A]) OnComplete(cb func(A, error)) { f.listen(cb) }

// UnsafeToFuture starts fa on a fresh Connection and returns a Future
// wrapping it, converting a raised E into a Go error via toErr. The
// returned Connection lets the caller cancel the underlying run.
func UnsafeToFuture[E, A any](fa Effect[E, A], toErr func(E) error, rt *Runtime) (Future[A], *Connection) {
	conn := NewConnection()
	slot := &completionSlot[Either[E, A]]{}
	r := resolveRuntime(rt)
	run(r, conn, fa.n, nil, func(o outcome) {
		slot.complete(outcomeToEither[E, A](o))
	})
	fut := &unsafeFuture[E, A]{
		conn: conn,
		listen: func(cb func(A, error)) {
			slot.onComplete(func(e Either[E, A]) {
				if e.IsLeft() {
					ev, _ := e.GetLeft()
					cb(*new(A), toErr(ev))
					return
				}
				av, _ := e.GetRight()
				cb(av, nil)
			})
		},
	}
	return fut, conn
}

// FromEither lifts an already-computed Either into a completed Effect,
// for threading a boundary result (e.g. from UnsafeRunSync) back into
// further effect composition.
func FromEither[E, A any](e Either[E, A]) Effect[E, A] {
	if e.IsLeft() {
		v, _ := e.GetLeft()
		return RaiseError[E, A](v)
	}
	v, _ := e.GetRight()
	return Pure[E, A](v)
}
