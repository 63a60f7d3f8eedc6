// Package opt provides a small generic optional value used wherever a probe
// field may be absent. Absence is explicit so zero never doubles as unknown.
package opt

import "fmt"

// Value holds either a T or nothing. The zero Value is None.
type Value[T any] struct {
	v  T
	ok bool
}

// Some wraps v as a present value.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the wrapped value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// Present reports whether a value is held.
func (o Value[T]) Present() bool { return o.ok }

// OrElse returns the held value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// String renders the value for debug logs; absent values print as "<none>".
func (o Value[T]) String() string {
	if !o.ok {
		return "<none>"
	}
	return fmt.Sprint(o.v)
}

// Map applies f to a present value.
func Map[T, U any](o Value[T], f func(T) U) Value[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(f(o.v))
}
