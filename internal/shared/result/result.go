package result

import "errors"

// Result is the outcome of a command that can fail for an expected business reason.
// A Result is either a success holding a value or a failure holding an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok builds a successful Result. The value may be the zero value of T.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail builds a failed Result. A nil err is a programming error.
func Fail[T any](err error) Result[T] {
	if err == nil {
		panic("result: Fail called with nil error")
	}
	return Result[T]{err: err}
}

// FailMsg builds a failed Result from a plain reason string.
func FailMsg[T any](reason string) Result[T] {
	return Fail[T](errors.New(reason))
}

// Propagate converts a failed Result into a failed Result of another type.
func Propagate[U, T any](r Result[T]) Result[U] {
	return Fail[U](r.Err())
}

func (r Result[T]) IsSuccess() bool { return r.err == nil }

func (r Result[T]) IsFailure() bool { return r.err != nil }

// Value returns the success value. Calling it on a failure panics.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic("result: cannot get value from failure result")
	}
	return r.value
}

// Err returns the failure error. Calling it on a success panics.
func (r Result[T]) Err() error {
	if r.err == nil {
		panic("result: cannot get error from success result")
	}
	return r.err
}

// Reason is the human readable failure message.
func (r Result[T]) Reason() string {
	return r.Err().Error()
}

// Unwrap returns the pair form for callers that prefer (value, error).
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}
