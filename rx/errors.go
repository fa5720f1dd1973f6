package rx

import (
	"errors"
	"fmt"
)

// Kind identifies where an error entered a pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	// KindProjection is an error returned, or a panic raised, by a projection.
	KindProjection
	// KindCallback is a panic raised by a consumer's OnNext.
	KindCallback
	// KindConfiguration is a pipeline used without the capability it depends on.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindProjection:
		return "projection"
	case KindCallback:
		return "callback"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the structured error delivered through OnError.
type Error struct {
	// Op names the stage that failed, e.g. "viewer.MouseOverSegment".
	Op   string
	Kind Kind
	Err  error
	// Value is the recovered panic value, if any.
	Value any
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err wraps an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var rxErr *Error
	return errors.As(err, &rxErr) && rxErr.Kind == k
}

func panicError(op string, kind Kind, r any) *Error {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}
	return &Error{Op: op, Kind: kind, Err: err, Value: r}
}

// Evaluate runs fn on src, converting a returned error or a panic into a
// KindProjection *Error.
func Evaluate[S, T any](op string, fn func(S) (T, error), src S) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(op, KindProjection, r)
		}
	}()
	v, err = fn(src)
	if err != nil {
		var zero T
		return zero, &Error{Op: op, Kind: KindProjection, Err: err}
	}
	return v, nil
}
