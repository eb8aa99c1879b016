/*
Package assert is a tiny set of test assertions. Every failed assertion stops
the test.
*/
package assert

import (
	"reflect"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless value is nil. A typed nil pointer, map, slice,
// channel or function counts as nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if isNil(value) {
		return
	}
	// %+v prints the stack trace of errors that carry one.
	t.Fatalf("want nil, got %+v", value)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
}

// Panics fails the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or wraps it. Registered errors
// are compared through their Is method.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}
