// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

// fusionMaxStackDepth bounds consecutive Map fusion (§3, §4.1): beyond this
// many composed transforms a fresh Map wrapper starts a new fusion chain, so
// the composed-closure call depth stays bounded regardless of program size.
const fusionMaxStackDepth = 32

// effectKind tags the seven closed shapes of the effect ADT (§3). The Bind
// frame's two shapes (plain continuation, error handler) are not a separate
// kind: they are both produced by kindBind, discriminated by node.isHandler.
// See DESIGN.md, "closed ADT vs. two bind-frame shapes."
type effectKind uint8

const (
	kindPure effectKind = iota
	kindRaiseError
	kindDelay
	kindSuspend
	kindBind
	kindMap
	kindAsync
)

// registerFunc is the erased shape of an Async node's register callback.
// conn is the connection the computation suspended against; complete
// delivers the outcome exactly once (idempotence is enforced by the
// callback adapter in callback.go, not here).
type registerFunc = func(conn *Connection, complete func(outcome))

// outcome is the erased result of an effect: either a value or an error,
// both stored as any and recovered via type assertion at the Effect[E, A]
// boundary. Never exported — user code only ever sees Either[E, A].
type outcome struct {
	value   any
	err     any
	isError bool
}

func valueOutcome(v any) outcome { return outcome{value: v} }
func errorOutcome(e any) outcome { return outcome{err: e, isError: true} }

// node is the unexported, non-generic workhorse behind Effect[E, A]. Fields
// are populated according to kind; unused fields for a given kind are left
// zero. This mirrors the teacher's Expr/Frame split: erase to `any` at
// construction, recover concrete types only at interpretation boundaries.
type node struct {
	kind effectKind

	// kindPure
	value any

	// kindRaiseError
	err any

	// kindDelay: thunk produces (value, hostFault); errMap converts a
	// non-nil hostFault into the erased E value stored by RaiseError.
	thunk  func() (any, error)
	errMap func(error) any

	// kindSuspend: like Delay, but the thunk produces another node.
	suspendThunk func() (*node, error)

	// kindBind (and the error-handler variant of the Bind frame)
	bindSrc   *node
	bindK     func(any) *node // nil when isHandler
	isHandler bool
	recover   func(any) *node // nil unless isHandler

	// kindMap
	mapSrc   *node
	mapF     func(any) any
	mapDepth int

	// kindAsync
	register registerFunc
}

// Effect[E, A] is an immutable description of a computation that yields
// either a value of type A or a failure of type E. Effects are values:
// running the same Effect twice runs it twice, independently (§3 invariant).
type Effect[E, A any] struct{ n *node }

// Pure lifts a value into an effect that completes immediately with it.
func Pure[E, A any](a A) Effect[E, A] {
	return Effect[E, A]{n: &node{kind: kindPure, value: a}}
}

// RaiseError builds an effect that fails immediately with e.
func RaiseError[E, A any](e E) Effect[E, A] {
	return Effect[E, A]{n: &node{kind: kindRaiseError, err: e}}
}

// Delay captures a synchronous, effectful thunk. If thunk returns a non-nil
// host fault, errMap converts it into the E channel; the run loop never sees
// a raw Go error escape a Delay node (§3, §7 point 2).
func Delay[E, A any](thunk func() (A, error), errMap func(error) E) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind:   kindDelay,
		thunk:  func() (any, error) { return thunk() },
		errMap: func(e error) any { return errMap(e) },
	}}
}

// Suspend captures a synchronous thunk that produces another effect, used
// for trampolined recursion: build-time recursive effect construction stays
// off the host stack because the run loop, not Go's call stack, drives it.
func Suspend[E, A any](thunk func() (Effect[E, A], error), errMap func(error) E) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindSuspend,
		suspendThunk: func() (*node, error) {
			eff, err := thunk()
			if err != nil {
				return nil, err
			}
			return eff.n, nil
		},
		errMap: func(e error) any { return errMap(e) },
	}}
}

// Async builds an externally driven effect: when interpreted, register is
// invoked with the active Connection and a completion function; the result
// is delivered by calling complete at most once (enforced by the run loop's
// idempotent callback adapter, not by register itself).
func Async[E, A any](register func(conn *Connection, complete func(Either[E, A]))) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			register(conn, func(e Either[E, A]) {
				if e.IsLeft() {
					errVal, _ := e.GetLeft()
					complete(errorOutcome(errVal))
					return
				}
				v, _ := e.GetRight()
				complete(valueOutcome(v))
			})
		},
	}}
}

// Cancelable builds an Async node whose register returns the effect to run
// if the connection is cancelled while this node is pending (§4.3). The
// cancel effect is installed via a forward-cancelable token pushed onto the
// connection before register returns, so a cancel arriving during register's
// own execution still observes a valid (initially no-op) cancel action.
// Unlike every other Async register (§7 point 3, runloop.go's suspend), a
// panic here is contained rather than re-raised: §4.3 requires it be
// reported to the sink logger with the cancel effect left a no-op, not
// escalated into crashing the run loop's goroutine.
func Cancelable[E, A any](register func(conn *Connection, complete func(Either[E, A])) Effect[E, struct{}]) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			fwd := newForwardCancel()
			conn.Push(fwd.run)
			defer func() {
				if r := recover(); r != nil {
					defaultRuntime().Logger.ReportFailure(panicToError("keffect: Cancelable register panicked", r))
					fwd.set(func() {})
				}
			}()
			cancelEff := register(conn, func(e Either[E, A]) {
				conn.Pop()
				if e.IsLeft() {
					errVal, _ := e.GetLeft()
					complete(errorOutcome(errVal))
					return
				}
				v, _ := e.GetRight()
				complete(valueOutcome(v))
			})
			fwd.set(func() {
				startDetached(cancelEff, NewConnection())
			})
		},
	}}
}

// Never builds an effect that never completes: its register never calls
// complete. Useful as the non-terminating half of cancellation scenarios.
func Never[E, A any]() Effect[E, A] {
	return Effect[E, A]{n: &node{kind: kindAsync, register: func(*Connection, func(outcome)) {}}}
}

// Unit is the effect that completes immediately with an empty struct.
func Unit[E any]() Effect[E, struct{}] { return Pure[E, struct{}](struct{}{}) }

// Bind sequences two effects: run fa, feed its value to k, run the result.
func Bind[E, A, B any](fa Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return Effect[E, B]{n: &node{
		kind:    kindBind,
		bindSrc: fa.n,
		bindK:   func(v any) *node { return k(v.(A)).n },
	}}
}

// MapEffect applies a pure transform to an effect's successful result. Maps
// fuse at construction time up to fusionMaxStackDepth consecutive calls
// (§3 invariant, §4.1 "Map fusion"): this bounds the composed-closure call
// depth the run loop's single Bind-shaped frame will invoke per step.
func MapEffect[E, A, B any](fa Effect[E, A], f func(A) B) Effect[E, B] {
	if fa.n.kind == kindMap && fa.n.mapDepth < fusionMaxStackDepth {
		prev := fa.n.mapF
		return Effect[E, B]{n: &node{
			kind:     kindMap,
			mapSrc:   fa.n.mapSrc,
			mapF:     func(v any) any { return f(prev(v).(A)) },
			mapDepth: fa.n.mapDepth + 1,
		}}
	}
	return Effect[E, B]{n: &node{
		kind:   kindMap,
		mapSrc: fa.n,
		mapF:   func(v any) any { return f(v.(A)) },
	}}
}

// HandleErrorWith installs an error-handler bind frame (§3, §4.1): on a
// successful value the frame is transparent (popped, not applied — the
// value passes through to the next frame); on a raised error it is the
// first thing consulted, and recover's result replaces the failed source.
func HandleErrorWith[E, A any](fa Effect[E, A], recover func(E) Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind:      kindBind,
		bindSrc:   fa.n,
		isHandler: true,
		recover:   func(e any) *node { return recover(e.(E)).n },
	}}
}

// Attempt materialises a failure into a value: never fails itself, yielding
// Left(e) where fa would have raised e, Right(a) where fa would have
// produced a. Built from MapEffect + HandleErrorWith, not a new ADT shape
// (§6, §8 law 5) — see DESIGN.md.
func Attempt[E, A any](fa Effect[E, A]) Effect[E, Either[E, A]] {
	wrapped := MapEffect(fa, func(a A) Either[E, A] { return Right[E, A](a) })
	return HandleErrorWith(wrapped, func(e E) Effect[E, Either[E, A]] {
		return Pure[E, Either[E, A]](Left[E, A](e))
	})
}

// LeftMap transforms the error channel of an effect, leaving success alone.
func LeftMap[E, F, A any](fa Effect[E, A], f func(E) F) Effect[F, A] {
	return Effect[F, A]{n: &node{
		kind:      kindBind,
		bindSrc:   fa.n,
		isHandler: true,
		recover:   func(e any) *node { return RaiseError[F, A](f(e.(E))).n },
	}}
}

// BiMap transforms both channels of an effect in one combinator.
func BiMap[E, F, A, B any](fa Effect[E, A], onErr func(E) F, onOk func(A) B) Effect[F, B] {
	mapped := MapEffect(fa, onOk)
	return LeftMap(mapped, onErr)
}
