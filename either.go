// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package keffect

// Either[E, A] represents the outcome of a run: a failure of type E or a
// success of type A, never both. Mirrors the teacher's own Either, used
// here both as the surfaced result of a run and of Attempt.
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

// Left builds a failed Either.
func Left[E, A any](e E) Either[E, A] { return Either[E, A]{left: e} }

// Right builds a successful Either.
func Right[E, A any](a A) Either[E, A] { return Either[E, A]{isRight: true, right: a} }

// IsRight reports whether the Either holds a success.
func (e Either[E, A]) IsRight() bool { return e.isRight }

// IsLeft reports whether the Either holds a failure.
func (e Either[E, A]) IsLeft() bool { return !e.isRight }

// GetRight returns the success value and true, or the zero value and false.
func (e Either[E, A]) GetRight() (A, bool) { return e.right, e.isRight }

// GetLeft returns the failure value and true, or the zero value and false.
func (e Either[E, A]) GetLeft() (E, bool) { return e.left, !e.isRight }

// MatchEither applies onLeft or onRight depending on which side is set.
func MatchEither[E, A, R any](e Either[E, A], onLeft func(E) R, onRight func(A) R) R {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// MapEither transforms the success side of an Either.
func MapEither[E, A, B any](e Either[E, A], f func(A) B) Either[E, B] {
	if e.isRight {
		return Right[E, B](f(e.right))
	}
	return Left[E, B](e.left)
}

// MapLeftEither transforms the failure side of an Either.
func MapLeftEither[E, F, A any](e Either[E, A], f func(E) F) Either[F, A] {
	if e.isRight {
		return Right[F, A](e.right)
	}
	return Left[F, A](f(e.left))
}

func outcomeToEither[E, A any](o outcome) Either[E, A] {
	if o.isError {
		return Left[E, A](o.err.(E))
	}
	return Right[E, A](o.value.(A))
}

func eitherToOutcome[E, A any](e Either[E, A]) outcome {
	if e.IsLeft() {
		v, _ := e.GetLeft()
		return errorOutcome(v)
	}
	v, _ := e.GetRight()
	return valueOutcome(v)
}
