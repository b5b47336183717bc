// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync"

type exitKind uint8

const (
	exitCompleted exitKind = iota
	exitErrored
	exitCanceled
)

// ExitCase[E] reports how a bracket's use-phase ended: normally, with a
// raised error, or because the ambient connection was cancelled. Grounded
// on the teacher's resource.go, generalised from its two-way acquire/use
// split to the three-way exit reporting spec.md requires of release.
type ExitCase[E any] struct {
	kind exitKind
	err  E
}

// ExitCompleted reports a use-phase that produced a value.
func ExitCompleted[E any]() ExitCase[E] { return ExitCase[E]{kind: exitCompleted} }

// ExitErrored reports a use-phase that raised e.
func ExitErrored[E any](e E) ExitCase[E] { return ExitCase[E]{kind: exitErrored, err: e} }

// ExitCanceled reports a use-phase cut short by cancellation.
func ExitCanceled[E any]() ExitCase[E] { return ExitCase[E]{kind: exitCanceled} }

// IsCanceled reports whether this exit was due to cancellation.
func (e ExitCase[E]) IsCanceled() bool { return e.kind == exitCanceled }

// IsErrored reports whether this exit was due to a raised error, returning
// it alongside true.
func (e ExitCase[E]) IsErrored() (E, bool) { return e.err, e.kind == exitErrored }

// BracketCase runs acquire, then use on its result, guaranteeing release
// runs exactly once with an ExitCase describing how use ended — on normal
// completion, on error, or (without ever calling complete, leaving the
// bracket non-terminating) on cancellation of the ambient connection
// (§4.6, §9 "bracket cancellation without sentinel values").
func BracketCase[E, R, A any](
	acquire Effect[E, R],
	use func(R) Effect[E, A],
	release func(R, ExitCase[E]) Effect[E, struct{}],
) Effect[E, A] {
	return Bind(acquire, func(r R) Effect[E, A] {
		return Effect[E, A]{n: &node{
			kind: kindAsync,
			register: func(conn *Connection, complete func(outcome)) {
				inner := NewConnection()
				var once sync.Once

				runRelease := func(ec ExitCase[E], after func()) {
					once.Do(func() {
						run(defaultRuntime(), uncancelableSingleton(), release(r, ec).n, nil, func(ro outcome) {
							if ro.isError {
								reportHostOrErased(ro.err)
							}
							after()
						})
					})
				}

				conn.Push(func() {
					inner.Cancel()
					runRelease(ExitCanceled[E](), func() {})
				})

				run(defaultRuntime(), inner, use(r).n, nil, func(o outcome) {
					var ec ExitCase[E]
					if o.isError {
						ec = ExitErrored[E](o.err.(E))
					} else {
						ec = ExitCompleted[E]()
					}
					runRelease(ec, func() {
						conn.Pop()
						complete(o)
					})
				})
			},
		}}
	})
}

// Bracket is BracketCase without exit-case reporting: release only needs
// the acquired resource.
func Bracket[E, R, A any](acquire Effect[E, R], use func(R) Effect[E, A], release func(R) Effect[E, struct{}]) Effect[E, A] {
	return BracketCase(acquire, use, func(r R, _ ExitCase[E]) Effect[E, struct{}] {
		return release(r)
	})
}

// GuaranteeCase runs fa, then cleanup with fa's ExitCase, regardless of
// how fa ended — a release-only bracket with no resource to acquire.
func GuaranteeCase[E, A any](fa Effect[E, A], cleanup func(ExitCase[E]) Effect[E, struct{}]) Effect[E, A] {
	return BracketCase(
		Unit[E](),
		func(struct{}) Effect[E, A] { return fa },
		func(_ struct{}, ec ExitCase[E]) Effect[E, struct{}] { return cleanup(ec) },
	)
}

// Guarantee runs fa then cleanup, regardless of how fa ended.
func Guarantee[E, A any](fa Effect[E, A], cleanup Effect[E, struct{}]) Effect[E, A] {
	return GuaranteeCase(fa, func(ExitCase[E]) Effect[E, struct{}] { return cleanup })
}

func reportHostOrErased(v any) {
	if err, ok := v.(error); ok {
		defaultRuntime().Logger.ReportFailure(err)
		return
	}
	defaultRuntime().Logger.ReportFailure(panicToError("keffect: release reported a failure", v))
}
