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

type fakeFuture struct {
	v   int
	err error
}

func (f *fakeFuture) OnComplete(cb func(int, error)) {
	go cb(f.v, f.err)
}

func TestFromFutureLiftsSuccess(t *testing.T) {
	e := keffect.FromFuture[string](&fakeFuture{v: 9}, func(err error) string { return err.Error() })
	r := keffect.UnsafeRunSync(e, nil)
	v, ok := r.GetRight()
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestFromFutureLiftsHostFault(t *testing.T) {
	e := keffect.FromFuture[string](&fakeFuture{err: errors.New("oops")}, func(err error) string { return err.Error() })
	r := keffect.UnsafeRunSync(e, nil)
	errVal, ok := r.GetLeft()
	require.True(t, ok)
	assert.Equal(t, "oops", errVal)
}

func TestUnsafeToFutureRoundTrips(t *testing.T) {
	fut, _ := keffect.UnsafeToFuture(keffect.Pure[string](3), func(s string) error { return errors.New(s) }, nil)

	done := make(chan struct{})
	var got int
	fut.OnComplete(func(v int, err error) {
		got = v
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("future never completed")
	}
	assert.Equal(t, 3, got)
}

func TestFromEitherRoundTrips(t *testing.T) {
	r := keffect.UnsafeRunSync(keffect.FromEither(keffect.Right[string, int](5)), nil)
	v, ok := r.GetRight()
	require.True(t, ok)
	assert.Equal(t, 5, v)

	r2 := keffect.UnsafeRunSync(keffect.FromEither(keffect.Left[string, int]("bad")), nil)
	errVal, ok2 := r2.GetLeft()
	require.True(t, ok2)
	assert.Equal(t, "bad", errVal)
}
