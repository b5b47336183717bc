// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"code.hybscloud.com/keffect"
)

func TestConnectionCancelRunsHooksMostRecentFirst(t *testing.T) {
	conn := keffect.NewConnection()
	var order []int
	conn.Push(func() { order = append(order, 1) })
	conn.Push(func() { order = append(order, 2) })
	conn.Push(func() { order = append(order, 3) })

	conn.Cancel()

	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestConnectionCancelIsIdempotent(t *testing.T) {
	conn := keffect.NewConnection()
	calls := 0
	conn.Push(func() { calls++ })

	conn.Cancel()
	conn.Cancel()
	conn.Cancel()

	assert.Equal(t, 1, calls)
}

func TestConnectionPushAfterCancelRunsImmediately(t *testing.T) {
	conn := keffect.NewConnection()
	conn.Cancel()

	ran := false
	conn.Push(func() { ran = true })

	assert.True(t, ran)
}

func TestConnectionPopRemovesMostRecentHookOnly(t *testing.T) {
	conn := keffect.NewConnection()
	var order []int
	conn.Push(func() { order = append(order, 1) })
	conn.Push(func() { order = append(order, 2) })
	conn.Pop()

	conn.Cancel()

	assert.Equal(t, []int{1}, order)
}

func TestConnectionIsCanceledReflectsState(t *testing.T) {
	conn := keffect.NewConnection()
	assert.False(t, conn.IsCanceled())
	conn.Cancel()
	assert.True(t, conn.IsCanceled())
}
