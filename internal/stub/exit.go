package stub

import "testing"

const (
	// PanicExit is raised by stubbed exit and fatal calls in place of terminating the process.
	PanicExit = 0xdeadbeef

	panicFailNow = 0xcafe0000 + iota
	panicFatal
)

// HandleExit recovers a simulated exit. It must be deferred before the stub is used.
func HandleExit(tb testing.TB) {
	switch r := recover(); r {
	case nil, PanicExit:
	case panicFailNow, panicFatal:
		tb.FailNow()
	default:
		panic(r)
	}
}
