package supervisor

import (
	"math/bits"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// maxSignal is the highest signal number on Linux, including real-time signals.
const maxSignal = 64

// ExcludedSignals are never waited for. They indicate a fault in the supervisor itself
// and keep their default disposition so that such a fault terminates the process.
var ExcludedSignals = [...]unix.Signal{
	unix.SIGSEGV,
	unix.SIGABRT,
	unix.SIGFPE,
	unix.SIGILL,
	unix.SIGSYS,
	unix.SIGTTIN,
	unix.SIGTTOU,
	unix.SIGTRAP,
	unix.SIGBUS,
}

// SignalMask is a set of signals numbered 1 to 64, bit n-1 representing signal n.
type SignalMask uint64

// NewSignalMask returns every catchable signal except [ExcludedSignals].
func NewSignalMask() SignalMask {
	return (^SignalMask(0)).
		Without(unix.SIGKILL, unix.SIGSTOP).
		Without(ExcludedSignals[:]...)
}

func signalBit(sig unix.Signal) SignalMask {
	if sig < 1 || sig > maxSignal {
		return 0
	}
	return 1 << (sig - 1)
}

// Without returns m with sig removed.
func (m SignalMask) Without(sig ...unix.Signal) SignalMask {
	for _, s := range sig {
		m &^= signalBit(s)
	}
	return m
}

// Has returns whether sig is a member of m.
func (m SignalMask) Has(sig unix.Signal) bool {
	b := signalBit(sig)
	return b != 0 && m&b != 0
}

// Len returns the number of signals in m.
func (m SignalMask) Len() int { return bits.OnesCount64(uint64(m)) }

// Signals returns members of m in ascending order, for use with [os/signal.Notify].
func (m SignalMask) Signals() []os.Signal {
	sig := make([]os.Signal, 0, m.Len())
	for s := unix.Signal(1); s <= maxSignal; s++ {
		if m.Has(s) {
			sig = append(sig, s)
		}
	}
	return sig
}

func (m SignalMask) String() string {
	var buf strings.Builder
	for i, s := range m.Signals() {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if name := unix.SignalName(s.(unix.Signal)); name != "" {
			buf.WriteString(name)
		} else {
			buf.WriteString("SIG" + strconv.Itoa(int(s.(unix.Signal))))
		}
	}
	return buf.String()
}
