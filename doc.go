// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package keffect provides a trampolined effect runtime for Go: programs are
// written as pure, first-class descriptions of synchronous and asynchronous
// computations (effects), interpreted by a single run loop with stack-safe
// sequencing, cooperative cancellation, resource safety, and concurrent
// racing.
//
// # Design Philosophy
//
// keffect provides:
//   - A closed effect ADT (Pure, RaiseError, Delay, Suspend, Bind, Map, Async)
//     interpreted by pattern dispatch, not a virtual hierarchy
//   - A trampolined run loop: binds are pushed onto an explicit stack rather
//     than the host stack, so bind chains of arbitrary length do not grow it
//   - Cooperative, asynchronous cancellation scoped to a Connection, with
//     uncancelable regions and cancel-to-error conversion
//   - Bracket (acquire/use/release) resource safety with exit-case reporting
//   - Race and racePair concurrency built on cancelable spawn and fibers
//
// # Core Operations
//
// Constructors: [Pure], [RaiseError], [Delay], [Suspend], [Async],
// [Cancelable], [Never], [Unit].
//
// Combinators: [Bind], [MapEffect], [Attempt], [LeftMap], [BiMap], [Start],
// [Uncancelable], [OnCancelRaiseError], [BracketCase], [Bracket].
//
// Concurrency: [Race], [RacePair].
//
// Execution: [UnsafeRunAsync], [UnsafeRunCancelable], [UnsafeRunSync],
// [UnsafeRunTimed].
//
// # What Is Not Here
//
// keffect does not schedule work onto threads or goroutine pools — that is
// the caller's [Executor]/[Timer] responsibility, injected via [Runtime].
// It does not memoize effect results: every run re-executes the tree from
// scratch. It implements no structured-concurrency primitive beyond
// [Race] and [RacePair].
package keffect
