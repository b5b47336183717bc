// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

import (
	"fmt"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger receives failures the run loop cannot otherwise surface to a
// caller (§7): a losing racer's error, a release that fails during an
// already-failing release, a callback delivered after its owner stopped
// listening. ReportFailure must never panic or block.
type Logger interface {
	ReportFailure(err error)
}

// logifaceLogger adapts a logiface.Logger[*stumpy.Event] to Logger. stumpy
// buffers each event into a byte slice before a single synchronous write,
// so ReportFailure cannot block on a partial write the way writing directly
// to an io.Writer per field could.
type logifaceLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

// NewLogifaceLogger wraps a *logiface.Logger[*stumpy.Event] built by the
// caller (via stumpy.L.New), for callers that want custom stumpy options.
func NewLogifaceLogger(l *logiface.Logger[*stumpy.Event]) Logger {
	return &logifaceLogger{l: l}
}

func (x *logifaceLogger) ReportFailure(err error) {
	if err == nil {
		return
	}
	x.l.Err().Err(err).Log(`keffect: unreported failure`)
}

// NewDefaultLogger returns the logger DefaultRuntime uses: structured JSON
// to stderr via stumpy, matching the logging idiom the rest of the
// retrieval pack's logiface backends (zerolog, logrus, slog) all share.
func NewDefaultLogger() Logger {
	return NewLogifaceLogger(stumpy.L.New(stumpy.L.WithStumpy()))
}

func panicToError(msg string, recovered any) error {
	if err, ok := recovered.(error); ok {
		return &panicError{msg: msg, cause: err}
	}
	return &panicError{msg: msg, cause: nil, value: recovered}
}

type panicError struct {
	msg   string
	cause error
	value any
}

func (e *panicError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	if e.value != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.value)
	}
	return e.msg
}

func (e *panicError) Unwrap() error { return e.cause }
