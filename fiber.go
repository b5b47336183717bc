// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync"

// completionSlot is a one-shot broadcast primitive: complete may be called
// at most effectively once (later calls are dropped), and onComplete either
// invokes its listener immediately (if already completed) or queues it.
// Grounded loosely on the teacher's Affine one-shot-resume idiom, adapted
// here to multi-listener broadcast for Fiber.Join and RacePair's loser
// join.
type completionSlot[T any] struct {
	mu        sync.Mutex
	done      bool
	value     T
	listeners []func(T)
}

func (s *completionSlot[T]) complete(v T) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.value = v
	ls := s.listeners
	s.listeners = nil
	s.mu.Unlock()
	for _, l := range ls {
		l(v)
	}
}

func (s *completionSlot[T]) onComplete(l func(T)) {
	s.mu.Lock()
	if s.done {
		v := s.value
		s.mu.Unlock()
		l(v)
		return
	}
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Fiber[E, A] is a handle to a computation running independently of its
// spawner (§4.7): Join waits for its outcome, Cancel asks it to stop.
type Fiber[E, A any] struct {
	slot *completionSlot[outcome]
	conn *Connection
}

// Join suspends until the fiber completes, yielding its outcome. Joining
// twice, or joining after the fiber already completed, both work.
func (f Fiber[E, A]) Join() Effect[E, A] {
	return Effect[E, A]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			deliver := newIdempotentCallback(complete)
			f.slot.onComplete(func(o outcome) { deliver(o) })
		},
	}}
}

// Cancel requests the fiber's own connection cancel. It completes as soon
// as the cancellation hooks have been invoked; it does not wait for the
// fiber's release/cleanup effects (if any) to finish running.
func (f Fiber[E, A]) Cancel() Effect[E, struct{}] {
	return Effect[E, struct{}]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			f.conn.Cancel()
			complete(valueOutcome(struct{}{}))
		},
	}}
}

// Start spawns fa on its own Connection, detached from the caller's own
// cancellation scope, and completes immediately with a Fiber handle.
func Start[E, A any](fa Effect[E, A]) Effect[E, Fiber[E, A]] {
	return Effect[E, Fiber[E, A]]{n: &node{
		kind: kindAsync,
		register: func(conn *Connection, complete func(outcome)) {
			fiberConn := NewConnection()
			slot := &completionSlot[outcome]{}
			go run(defaultRuntime(), fiberConn, fa.n, nil, slot.complete)
			complete(valueOutcome(Fiber[E, A]{slot: slot, conn: fiberConn}))
		},
	}}
}
