// Package stub checks the exact sequence of system calls made through a dispatcher.
package stub

import (
	"reflect"
	"testing"
)

// stub is for test instrumentation only
func init() {
	if !testing.Testing() {
		panic("stub imported while not in a test")
	}
}

// A Stub walks an ordered list of expected calls.
// The zero value is not usable; create one with [New].
type Stub struct {
	testing.TB

	want []Call
	// pos is the index of the next expected call.
	pos int
}

// New returns a [Stub] expecting want, in order.
func New(tb testing.TB, want []Call) *Stub { return &Stub{TB: tb, want: want} }

func (s *Stub) FailNow()          { s.Helper(); panic(panicFailNow) }
func (s *Stub) Fatal(args ...any) { s.Helper(); s.Error(args...); panic(panicFatal) }
func (s *Stub) Fatalf(format string, args ...any) {
	s.Helper()
	s.Errorf(format, args...)
	panic(panicFatal)
}

// Pos returns the number of calls consumed so far.
func (s *Stub) Pos() int { return s.pos }

// Len returns the number of expected calls.
func (s *Stub) Len() int { return len(s.want) }

// Done reports an error if not every expected call was made.
func (s *Stub) Done() {
	s.Helper()
	if s.pos != len(s.want) {
		s.Errorf("%d calls, want %d", s.pos, len(s.want))
	}
}

// Expects checks the name of the next expected call, advances, and returns it.
func (s *Stub) Expects(name string) *Call {
	s.Helper()

	if s.pos == len(s.want) {
		s.Fatalf("Expects: %s called beyond expected calls", name)
	}
	expect := &s.want[s.pos]
	if expect.Name != name {
		s.Fatalf("Expects: func = %s, want %s (%d)", name, expect.Name, s.pos)
	}
	s.pos++
	return expect
}

// current returns the most recently consumed call.
func (s *Stub) current() Call {
	pos := s.pos - 1
	if pos < 0 || pos >= len(s.want) {
		panic("argument checked without a matching Expects")
	}
	return s.want[pos]
}

// CheckArg checks argument n of the current call using the == operator.
func CheckArg[T comparable](s *Stub, arg string, got T, n int) bool {
	s.Helper()

	expect := s.current()
	want, ok := expect.Args[n].(T)
	if !ok || got != want {
		s.Errorf("%s: %s = %#v, want %#v (%d)", expect.Name, arg, got, expect.Args[n], s.pos-1)
		return false
	}
	return true
}

// CheckArgReflect checks argument n of the current call using [reflect.DeepEqual].
func CheckArgReflect(s *Stub, arg string, got any, n int) bool {
	s.Helper()

	expect := s.current()
	if !reflect.DeepEqual(got, expect.Args[n]) {
		s.Errorf("%s: %s = %#v, want %#v (%d)", expect.Name, arg, got, expect.Args[n], s.pos-1)
		return false
	}
	return true
}
