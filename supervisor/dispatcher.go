package supervisor

import (
	"log"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// syscallDispatcher provides methods that make state-dependent system calls as part of their behaviour.
type syscallDispatcher interface {
	// getpid provides [os.Getpid].
	getpid() int
	// setChildSubreaper provides prctl(PR_SET_CHILD_SUBREAPER).
	setChildSubreaper() error
	// notify provides [signal.Notify].
	notify(c chan<- os.Signal, sig ...os.Signal)
	// wait4 provides [unix.Wait4].
	wait4(pid int, wstatus *unix.WaitStatus, options int, rusage *unix.Rusage) (wpid int, err error)

	// fatalf provides [log.Fatalf].
	fatalf(format string, v ...any)
}

// direct implements syscallDispatcher on the current kernel.
type direct struct{}

func (direct) getpid() int { return os.Getpid() }
func (direct) setChildSubreaper() error {
	return unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0)
}
func (direct) notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }
func (direct) wait4(pid int, wstatus *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error) {
	return unix.Wait4(pid, wstatus, options, rusage)
}

func (direct) fatalf(format string, v ...any) { log.Fatalf(format, v...) }
