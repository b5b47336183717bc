// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync/atomic"

// idempotentCallback guards a completion function so it runs at most once,
// regardless of how many goroutines race to call it. Grounded on the
// teacher's Affine: a CAS on an atomic flag rather than a mutex, since the
// guarded body (delivering into the run loop) must never block a caller
// that lost the race.
type idempotentCallback struct {
	used atomic.Bool
	fn   func(outcome)
}

// newIdempotentCallback wraps fn so only the first call takes effect.
// Callers that lose the race are told via the returned bool so they can
// report a late/duplicate delivery instead of silently dropping it (§7).
func newIdempotentCallback(fn func(outcome)) func(outcome) bool {
	ic := &idempotentCallback{fn: fn}
	return func(o outcome) bool {
		if !ic.used.CompareAndSwap(false, true) {
			return false
		}
		ic.fn(o)
		return true
	}
}

// Executor is the immediate executor (§6). Its default implementation,
// trampolineExecutor, is re-entrancy-safe: Submit may be
// called from inside a thunk already running on the executor (e.g. a
// callback firing synchronously from within register), in which case the
// thunk is queued rather than run recursively, bounding host stack growth
// to a constant regardless of how deeply callbacks re-enter each other.
type Executor interface {
	Submit(func())
}

type trampolineExecutor struct {
	running atomic.Bool
	queue   []func()
	qmu     chan struct{} // 1-buffered channel used as a mutex over queue/running
}

// NewTrampolineExecutor returns the default Executor: a FIFO queue drained
// by whichever goroutine's Submit call finds the trampoline idle.
func NewTrampolineExecutor() Executor {
	e := &trampolineExecutor{qmu: make(chan struct{}, 1)}
	e.qmu <- struct{}{}
	return e
}

func (e *trampolineExecutor) Submit(fn func()) {
	<-e.qmu
	e.queue = append(e.queue, fn)
	if e.running.Load() {
		e.qmu <- struct{}{}
		return
	}
	e.running.Store(true)
	e.qmu <- struct{}{}

	for {
		<-e.qmu
		if len(e.queue) == 0 {
			e.running.Store(false)
			e.qmu <- struct{}{}
			return
		}
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.qmu <- struct{}{}
		next()
	}
}
