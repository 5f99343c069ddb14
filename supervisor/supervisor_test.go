package supervisor

import (
	"slices"
	"strconv"
	"testing"

	"git.ophivana.moe/security/crossing/internal/stub"
	"golang.org/x/sys/unix"
)

// reaped is the expected call of a wait4 collecting pid.
func reaped(pid int) stub.Call {
	return stub.C("wait4", stub.ExpectArgs{-1, (*unix.WaitStatus)(nil), 0, (*unix.Rusage)(nil)}, pid, nil)
}

// drained is the expected call of a wait4 finding no children.
func drained(err error) stub.Call {
	return stub.C("wait4", stub.ExpectArgs{-1, (*unix.WaitStatus)(nil), 0, (*unix.Rusage)(nil)}, -1, err)
}

func checkServe(t *testing.T, want []stub.Call) {
	t.Helper()

	k := &kstub{stub.New(t, want)}
	func() {
		defer stub.HandleExit(t)
		serve(k)
	}()
	k.Done()
}

func TestServe(t *testing.T) {
	t.Parallel()

	mask := NewSignalMask().Signals()
	testCases := []struct {
		name string
		want []stub.Call
	}{
		{"idle", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 1, nil),
			stub.C("notify", stub.ExpectArgs{feed(), mask}, nil, nil),
		}},

		{"subreaper", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 0xbad, nil),
			stub.C("setChildSubreaper", stub.ExpectArgs{}, nil, nil),
			stub.C("notify", stub.ExpectArgs{feed(unix.SIGCHLD), mask}, nil, nil),
			reaped(0xcafe),
			drained(unix.ECHILD),
		}},

		{"subreaper error", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 0xbad, nil),
			stub.C("setChildSubreaper", stub.ExpectArgs{}, nil, stub.UniqueError(0)),
			stub.C("fatalf", stub.ExpectArgs{"failed to set child subreaper: %v", []any{stub.UniqueError(0)}}, nil, nil),
		}},

		{"any signal reaps", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 1, nil),
			stub.C("notify", stub.ExpectArgs{feed(unix.SIGTERM, unix.SIGHUP), mask}, nil, nil),
			reaped(2),
			drained(unix.ECHILD),
			drained(unix.ECHILD),
		}},

		{"interrupted", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 1, nil),
			stub.C("notify", stub.ExpectArgs{feed(unix.SIGCHLD), mask}, nil, nil),
			drained(unix.EINTR),
			reaped(3),
			drained(unix.EINTR),
			drained(unix.ECHILD),
		}},

		{"reap error", []stub.Call{
			stub.C("getpid", stub.ExpectArgs{}, 1, nil),
			stub.C("notify", stub.ExpectArgs{feed(unix.SIGCHLD, unix.SIGCHLD), mask}, nil, nil),
			reaped(2),
			drained(unix.EFAULT),
			stub.C("fatalf", stub.ExpectArgs{"failed to reap children: %v", []any{unix.EFAULT}}, nil, nil),
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			checkServe(t, tc.want)
		})
	}
}

func TestServeReturnsToWait(t *testing.T) {
	t.Parallel()

	mask := NewSignalMask().Signals()
	for n := 0; n <= 16; n++ {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			t.Parallel()

			want := []stub.Call{
				stub.C("getpid", stub.ExpectArgs{}, 1, nil),
				stub.C("notify", stub.ExpectArgs{feed(unix.SIGCHLD, unix.SIGCHLD), mask}, nil, nil),
			}
			for pid := 2; pid < n+2; pid++ {
				want = append(want, reaped(pid))
			}
			// the second signal only finds the supervisor waiting again if the first cycle ended cleanly
			want = append(want, drained(unix.ECHILD), drained(unix.ECHILD))
			checkServe(t, slices.Clip(want))
		})
	}
}
