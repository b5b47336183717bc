// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/keffect"
)

func TestPureCompletesWithValue(t *testing.T) {
	e := keffect.Pure[string](42)
	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetRight()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestRaiseErrorCompletesWithError(t *testing.T) {
	e := keffect.RaiseError[string, int]("boom")
	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetLeft()
	require.True(t, ok)
	assert.Equal(t, "boom", v)
}

func TestBindSequencesValues(t *testing.T) {
	e := keffect.Bind(keffect.Pure[string](1), func(a int) keffect.Effect[string, int] {
		return keffect.Pure[string](a + 1)
	})
	r := keffect.UnsafeRunSync(e, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 2, v)
}

func TestBindShortCircuitsOnError(t *testing.T) {
	called := false
	e := keffect.Bind(keffect.RaiseError[string, int]("nope"), func(a int) keffect.Effect[string, int] {
		called = true
		return keffect.Pure[string](a)
	})
	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetLeft()
	require.True(t, ok)
	assert.Equal(t, "nope", v)
	assert.False(t, called)
}

func TestMapEffectTransformsValue(t *testing.T) {
	e := keffect.MapEffect(keffect.Pure[string](2), func(a int) int { return a * 10 })
	r := keffect.UnsafeRunSync(e, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 20, v)
}

func TestMapEffectFusesConsecutiveCalls(t *testing.T) {
	e := keffect.Pure[string](1)
	mapped := keffect.MapEffect(e, func(a int) int { return a + 1 })
	for i := 0; i < 10; i++ {
		mapped = keffect.MapEffect(mapped, func(a int) int { return a + 1 })
	}
	r := keffect.UnsafeRunSync(mapped, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 12, v)
}

// TestMapEffectFusionResetsPastMaxStackDepth drives more than
// fusionMaxStackDepth (32) consecutive MapEffect calls, exercising the
// branch where a fresh Map wrapper starts a new fusion chain instead of
// growing the same composed closure indefinitely.
func TestMapEffectFusionResetsPastMaxStackDepth(t *testing.T) {
	mapped := keffect.MapEffect(keffect.Pure[string](0), func(a int) int { return a + 1 })
	for i := 0; i < 100; i++ {
		mapped = keffect.MapEffect(mapped, func(a int) int { return a + 1 })
	}
	r := keffect.UnsafeRunSync(mapped, nil)
	v, ok := r.GetRight()
	require.True(t, ok)
	assert.Equal(t, 101, v)
}

func TestDelayRunsThunkAndConvertsHostFault(t *testing.T) {
	ok := keffect.Delay(func() (int, error) { return 7, nil }, func(err error) string { return err.Error() })
	r := keffect.UnsafeRunSync(ok, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 7, v)

	hostErr := errors.New("disk on fire")
	fail := keffect.Delay(func() (int, error) { return 0, hostErr }, func(err error) string { return err.Error() })
	r2 := keffect.UnsafeRunSync(fail, nil)
	e, ok2 := r2.GetLeft()
	require.True(t, ok2)
	assert.Equal(t, "disk on fire", e)
}

func TestSuspendRecursesOffTheRunLoop(t *testing.T) {
	var countDown func(n int) keffect.Effect[string, int]
	countDown = func(n int) keffect.Effect[string, int] {
		if n == 0 {
			return keffect.Pure[string](0)
		}
		return keffect.Suspend(func() (keffect.Effect[string, int], error) {
			return countDown(n - 1), nil
		}, func(err error) string { return err.Error() })
	}
	r := keffect.UnsafeRunSync(countDown(1000), nil)
	v, _ := r.GetRight()
	assert.Equal(t, 0, v)
}

func TestAttemptMaterializesSuccessAndFailure(t *testing.T) {
	ok := keffect.Attempt(keffect.Pure[string](5))
	r := keffect.UnsafeRunSync(ok, nil)
	v, _ := r.GetRight()
	assert.True(t, v.IsRight())

	fail := keffect.Attempt(keffect.RaiseError[string, int]("bad"))
	r2 := keffect.UnsafeRunSync(fail, nil)
	v2, _ := r2.GetRight()
	e, isLeft := v2.GetLeft()
	assert.True(t, isLeft)
	assert.Equal(t, "bad", e)
}

func TestHandleErrorWithTransparentOnValuePath(t *testing.T) {
	applied := false
	e := keffect.HandleErrorWith(keffect.Pure[string](9), func(err string) keffect.Effect[string, int] {
		applied = true
		return keffect.Pure[string](-1)
	})
	r := keffect.UnsafeRunSync(e, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 9, v)
	assert.False(t, applied)
}

func TestHandleErrorWithRecoversOnErrorPath(t *testing.T) {
	e := keffect.HandleErrorWith(keffect.RaiseError[string, int]("x"), func(err string) keffect.Effect[string, int] {
		return keffect.Pure[string](len(err))
	})
	r := keffect.UnsafeRunSync(e, nil)
	v, _ := r.GetRight()
	assert.Equal(t, 1, v)
}

func TestLeftMapTransformsErrorChannelOnly(t *testing.T) {
	e := keffect.LeftMap(keffect.RaiseError[int, string](3), func(n int) string { return "code " + "x" })
	r := keffect.UnsafeRunSync(e, nil)
	errVal, ok := r.GetLeft()
	require.True(t, ok)
	assert.Equal(t, "code x", errVal)
}

func TestNeverNeverCompletes(t *testing.T) {
	e := keffect.Never[string, int]()
	_, completed := keffect.UnsafeRunTimed(e, 10*time.Millisecond, nil)
	assert.False(t, completed)
}

func TestUnitCompletesImmediately(t *testing.T) {
	r := keffect.UnsafeRunSync(keffect.Unit[string](), nil)
	_, ok := r.GetRight()
	assert.True(t, ok)
}
