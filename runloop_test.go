// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect_test

import (
	"testing"

	"code.hybscloud.com/keffect"
)

// TestRunLoopBindChainIsStackSafe sequences a long chain of binds, the kind
// a naive recursive interpreter would blow the host stack on; the
// trampolined run loop must not.
func TestRunLoopBindChainIsStackSafe(t *testing.T) {
	const n = 200_000

	e := keffect.Pure[string](0)
	for i := 0; i < n; i++ {
		e = keffect.Bind(e, func(a int) keffect.Effect[string, int] {
			return keffect.Pure[string](a + 1)
		})
	}

	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetRight()
	if !ok {
		t.Fatalf("expected success, got error")
	}
	if v != n {
		t.Fatalf("expected %d, got %d", n, v)
	}
}

func TestRunLoopMapChainIsStackSafe(t *testing.T) {
	const n = 200_000

	e := keffect.Pure[string](0)
	for i := 0; i < n; i++ {
		e = keffect.MapEffect(e, func(a int) int { return a + 1 })
	}

	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetRight()
	if !ok {
		t.Fatalf("expected success, got error")
	}
	if v != n {
		t.Fatalf("expected %d, got %d", n, v)
	}
}

func TestRunLoopAsyncBoundaryResumesBindChain(t *testing.T) {
	async := keffect.Async[string, int](func(conn *keffect.Connection, complete func(keffect.Either[string, int])) {
		go complete(keffect.Right[string, int](1))
	})

	e := keffect.Bind(async, func(a int) keffect.Effect[string, int] {
		return keffect.Pure[string](a + 1)
	})

	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetRight()
	if !ok || v != 2 {
		t.Fatalf("expected 2, got %v ok=%v", v, ok)
	}
}

type countingLogger struct{ reports int }

func (l *countingLogger) ReportFailure(error) { l.reports++ }

// TestRunLoopContinuationPanicIsReportedAndRepanicked verifies a
// continuation fault is never silently folded into the error channel: it is
// reported to the runtime's Logger and then re-panicked.
func TestRunLoopContinuationPanicIsReportedAndRepanicked(t *testing.T) {
	logger := &countingLogger{}
	rt := &keffect.Runtime{Logger: logger, Executor: keffect.NewTrampolineExecutor(), Timer: keffect.NewGoTimer()}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic to propagate")
		}
		if logger.reports != 1 {
			t.Fatalf("expected the panic to be reported once, got %d reports", logger.reports)
		}
	}()

	e := keffect.Bind(keffect.Pure[string](1), func(a int) keffect.Effect[string, int] {
		panic("continuation bug")
	})
	keffect.UnsafeRunSync(e, rt)
}
