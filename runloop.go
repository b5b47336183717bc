// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "time"

// stepResult is what step returns: either a terminal outcome (the effect
// bottomed out without ever suspending) or the first Async node step ran
// into, paired with the frame stack to resume against once that node's
// callback fires (§4.1, "step"). step never registers the Async node
// itself — that is left to whichever caller decides how to wait for it
// (suspend, for the fully async trampoline; stepTimed, for a
// bounded-per-hop synchronous wait).
type stepResult struct {
	kind    effectKind // kindPure, kindRaiseError, or kindAsync
	outcome outcome    // valid when kind is kindPure or kindRaiseError
	pending *node      // valid when kind is kindAsync
	frames  *frame     // valid when kind is kindAsync
}

// step evaluates n against frames synchronously, advancing through Pure,
// RaiseError, Delay, Suspend, Map and Bind nodes without ever blocking,
// and stops at the first Async node it encounters (or at the bottom of
// the frame stack, whichever comes first). Grounded on the teacher's
// step.go (Step[A], classifyResumed): the same synchronous-prefix idea,
// adapted from Cont's continuation-classification to this package's own
// node/frame shapes.
func step(rt *Runtime, n *node, frames *frame) stepResult {
	for {
		switch n.kind {
		case kindPure:
			if nn, nf, ok := popValueSafe(rt, n.value, frames); ok {
				n, frames = nn, nf
				continue
			}
			return stepResult{kind: kindPure, outcome: valueOutcome(n.value)}

		case kindRaiseError:
			if nn, nf, ok := popErrorSafe(rt, n.err, frames); ok {
				n, frames = nn, nf
				continue
			}
			return stepResult{kind: kindRaiseError, outcome: errorOutcome(n.err)}

		case kindDelay:
			n = safeDelay(rt, n)
			continue

		case kindSuspend:
			n = safeSuspend(rt, n)
			continue

		case kindMap:
			f := n.mapF
			frames = pushPlain(frames, func(v any) *node {
				return &node{kind: kindPure, value: f(v)}
			})
			n = n.mapSrc
			continue

		case kindBind:
			if n.isHandler {
				frames = pushHandler(frames, n.recover)
			} else {
				frames = pushPlain(frames, n.bindK)
			}
			n = n.bindSrc
			continue

		case kindAsync:
			return stepResult{kind: kindAsync, pending: n, frames: frames}

		default:
			panic("keffect: unreachable effect kind")
		}
	}
}

// run is the fully asynchronous trampoline (§4.1): it drives step to
// completion, registering each Async node it hits against rt.Executor and
// re-entering step once that node's callback fires, until a terminal
// outcome is reached. onComplete runs exactly once, synchronously if the
// tree never suspends, or later otherwise.
func run(rt *Runtime, conn *Connection, n *node, frames *frame, onComplete func(outcome)) {
	res := step(rt, n, frames)
	switch res.kind {
	case kindAsync:
		suspend(rt, conn, res.pending, res.frames, onComplete)
	default:
		onComplete(res.outcome)
	}
}

// popValueSafe and popErrorSafe wrap popValue/popError with panic
// containment: a continuation or handler fault is a programming bug (§7
// point 3), reported via the logger then re-panicked rather than silently
// folded into the error channel.
func popValueSafe(rt *Runtime, v any, frames *frame) (n *node, rest *frame, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ReportFailure(panicToError("keffect: Bind continuation panicked", r))
			panic(r)
		}
	}()
	n, rest, ok = popValue(v, frames)
	return
}

func popErrorSafe(rt *Runtime, e any, frames *frame) (n *node, rest *frame, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ReportFailure(panicToError("keffect: error handler panicked", r))
			panic(r)
		}
	}()
	n, rest, ok = popError(e, frames)
	return
}

// safeDelay runs a Delay node's thunk with panic containment: a thunk
// panic is reported then re-panicked (§7 point 3), never folded into the
// error channel. A returned host fault (non-nil error) is converted via
// errMap into a RaiseError node; otherwise the thunk's value becomes Pure.
func safeDelay(rt *Runtime, n *node) (next *node) {
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ReportFailure(panicToError("keffect: Delay thunk panicked", r))
			panic(r)
		}
	}()
	v, err := n.thunk()
	if err != nil {
		return &node{kind: kindRaiseError, err: n.errMap(err)}
	}
	return &node{kind: kindPure, value: v}
}

func safeSuspend(rt *Runtime, n *node) (next *node) {
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ReportFailure(panicToError("keffect: Suspend thunk panicked", r))
			panic(r)
		}
	}()
	v, err := n.suspendThunk()
	if err != nil {
		return &node{kind: kindRaiseError, err: n.errMap(err)}
	}
	return v
}

// suspend registers an Async node against conn, wiring its completion to
// resume the trampoline on rt.Executor. The callback is wrapped in an
// idempotent guard (§4.4, §7): a register implementation that calls
// complete more than once only takes effect once, and a second delivery is
// reported rather than silently dropped.
func suspend(rt *Runtime, conn *Connection, n *node, frames *frame, onComplete func(outcome)) {
	deliver := newIdempotentCallback(func(o outcome) {
		rt.Executor.Submit(func() {
			resume(rt, conn, o, frames, onComplete)
		})
	})
	registerAsyncSafe(rt, conn, n, deliver)
}

// registerAsyncSafe calls n.register with panic containment shared by
// suspend (the fully async trampoline) and stepTimed (the per-hop bounded
// synchronous wait): register has no errMap (unlike Delay/Suspend), so
// there is no well-typed E value to synthesize here, and a register panic
// is reported then re-raised rather than folded into the effect's error
// channel (§7 point 3). deliver is the idempotent completion guard; a
// second delivery is reported rather than silently dropped (§4.4).
func registerAsyncSafe(rt *Runtime, conn *Connection, n *node, deliver func(outcome) bool) {
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.ReportFailure(panicToError("keffect: Async register panicked", r))
			panic(r)
		}
	}()
	n.register(conn, func(o outcome) {
		if !deliver(o) {
			rt.Logger.ReportFailure(panicToError("keffect: duplicate Async completion ignored", nil))
		}
	})
}

// resume re-enters step with the outcome an Async node finally delivered,
// applying the same value/error popping rules as a synchronous
// Pure/RaiseError node would, and continues the trampoline from there.
func resume(rt *Runtime, conn *Connection, o outcome, frames *frame, onComplete func(outcome)) {
	run(rt, conn, outcomeNode(o), frames, onComplete)
}

func outcomeNode(o outcome) *node {
	if o.isError {
		return &node{kind: kindRaiseError, err: o.err}
	}
	return &node{kind: kindPure, value: o.value}
}

// stepTimed drives step synchronously, bounding the wait on *each*
// individual Async node it encounters by timeout rather than bounding the
// total run (spec.md §9, "unsafeRunTimed semantics": the run loop's step
// primitive exists so each async hop gets its own fresh deadline). A run
// that suspends ten times, each resolving in well under timeout, runs to
// completion even if its total wall-clock time exceeds timeout; a run
// stuck on any single Async node for longer than timeout reports
// (zero-outcome, false) instead of waiting further.
//
// This function does not use rt.Executor: it blocks the calling goroutine
// on a channel per hop, deliberately outside the re-entrant trampoline, the
// same way the teacher's Step[A] is a synchronous alternative to Handle,
// not a variant of it.
func stepTimed(rt *Runtime, conn *Connection, n *node, frames *frame, timeout time.Duration) (outcome, bool) {
	for {
		res := step(rt, n, frames)
		if res.kind != kindAsync {
			return res.outcome, true
		}

		ch := make(chan outcome, 1)
		deliver := newIdempotentCallback(func(o outcome) { ch <- o })
		registerAsyncSafe(rt, conn, res.pending, deliver)

		select {
		case o := <-ch:
			n, frames = outcomeNode(o), res.frames
			continue
		case <-time.After(timeout):
			return outcome{}, false
		}
	}
}

// startDetached runs fa to completion on a fresh goroutine, reporting any
// error to the default runtime's logger instead of surfacing it anywhere
// (used to fire cancel effects that nothing awaits — §4.3's Cancelable).
func startDetached[E, A any](fa Effect[E, A], conn *Connection) {
	go run(defaultRuntime(), conn, fa.n, nil, func(o outcome) {
		if o.isError {
			if err, ok := o.err.(error); ok {
				defaultRuntime().Logger.ReportFailure(err)
			} else {
				defaultRuntime().Logger.ReportFailure(panicToError("keffect: detached cancel effect failed", o.err))
			}
		}
	})
}
