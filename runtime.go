// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import "sync"

// Runtime bundles the capabilities the run loop needs from its host:
// a Logger for failures that cannot otherwise be surfaced, an Executor for
// re-entrancy-safe callback dispatch, and a Timer for Shift/Sleep. Mirrors
// the teacher's small capability-bundle style (ErrorContext, WriterContext)
// rather than relying on package-level mutable state.
type Runtime struct {
	Logger   Logger
	Executor Executor
	Timer    Timer
}

var (
	defaultRuntimeOnce sync.Once
	defaultRuntimeVal  *Runtime
)

// DefaultRuntime returns the lazily constructed default Runtime: a stumpy
// JSON logger on stderr, a trampoline executor, and a time.AfterFunc timer.
func DefaultRuntime() *Runtime {
	defaultRuntimeOnce.Do(func() {
		defaultRuntimeVal = &Runtime{
			Logger:   NewDefaultLogger(),
			Executor: NewTrampolineExecutor(),
			Timer:    NewGoTimer(),
		}
	})
	return defaultRuntimeVal
}

func defaultRuntime() *Runtime { return DefaultRuntime() }

func resolveRuntime(rt *Runtime) *Runtime {
	if rt == nil {
		return DefaultRuntime()
	}
	return rt
}
