// Package invariant provides contract assertions for batparse.
//
// Use Precondition/Postcondition to express function contracts and Invariant
// for internal consistency checks inside the scanner and parser loops.
//
// All functions panic on violation - these are programming errors, not user errors.
// Malformed scripts are reported through parser.ParseError, never through this package.
package invariant

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func (s *Scanner) Boundary(from int, stops Stops, depth int) Boundary {
//	    invariant.Precondition(from >= 0 && from <= s.Len(), "from out of range")
//	    // ... scan ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
// Panics with POSTCONDITION VIOLATION if condition is false.
//
// Example:
//
//	end := s.Word(i, depth)
//	invariant.Postcondition(end >= i, "word end must not precede start")
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Example:
//
//	prevPos := p.pos
//	for !p.eof() {
//	    // ... parse one item ...
//	    invariant.Invariant(p.pos > prevPos, "parser must advance")
//	    prevPos = p.pos
//	}
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*ast.Node)(nil).
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [min, max].
//
// Example:
//
//	invariant.InRange(offset, 0, len(src), "offset")
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// ExpectNoError panics if error is not nil.
// Use it for operations whose inputs are fully controlled, such as encoding
// a tree that was produced by the parser.
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// ContextNotBackground panics if ctx is nil or context.Background().
// Long-running loops (watch mode) must receive the caller's context so that
// an interrupt stops them.
func ContextNotBackground(ctx context.Context, location string) {
	if ctx == nil {
		fail("PRECONDITION", "%s: context must not be nil", location)
	}
	if ctx == context.Background() {
		fail("PRECONDITION", "%s: context must not be Background() - parent context required for cancellation", location)
	}
}

// fail panics with a formatted message including the caller's location.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
