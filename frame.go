// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

// frame is one entry of the bind-frame stack the run loop maintains
// explicitly instead of growing the host call stack (§4.1). Two shapes
// share this struct, discriminated by isHandler: a plain continuation (k)
// consulted only on the value path, and an error handler (recover)
// consulted only on the error path.
//
// Unlike the teacher's BindFrame/EffectFrame, these are not sync.Pool
// recycled: a frame stack snapshotted at an Async suspension point is
// retained for the lifetime of that suspension (and, for Race, may be
// referenced by a cancellation hook concurrently with the main
// continuation), so eagerly returning a popped frame to a pool risks a
// second holder observing a reused, zeroed struct. See DESIGN.md.
type frame struct {
	next      *frame
	isHandler bool
	k         func(any) *node
	recover   func(any) *node
}

func pushPlain(next *frame, k func(any) *node) *frame {
	return &frame{next: next, k: k}
}

func pushHandler(next *frame, recover func(any) *node) *frame {
	return &frame{next: next, isHandler: true, recover: recover}
}

// popValue advances past any handler frames (transparent on the value
// path) until it finds a plain continuation to apply, or exhausts the
// stack. ok is false when the stack is exhausted — the run is complete.
func popValue(v any, frames *frame) (next *node, rest *frame, ok bool) {
	for frames != nil {
		f := frames
		frames = frames.next
		if f.isHandler {
			continue
		}
		return f.k(v), frames, true
	}
	return nil, nil, false
}

// popError advances past plain continuation frames (discarded, unapplied,
// on the error path) until it finds a handler to apply, or exhausts the
// stack.
func popError(e any, frames *frame) (next *node, rest *frame, ok bool) {
	for frames != nil {
		f := frames
		frames = frames.next
		if f.isHandler {
			return f.recover(e), frames, true
		}
	}
	return nil, nil, false
}
