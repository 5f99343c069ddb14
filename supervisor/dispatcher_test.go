package supervisor

import (
	"os"

	"git.ophivana.moe/security/crossing/internal/stub"
	"golang.org/x/sys/unix"
)

// feed returns a notify hook that queues sig and then closes the channel, ending serve.
func feed(sig ...os.Signal) func(c chan<- os.Signal) {
	return func(c chan<- os.Signal) {
		for _, s := range sig {
			c <- s
		}
		close(c)
	}
}

type kstub struct{ *stub.Stub }

func (k *kstub) getpid() int { k.Helper(); return k.Expects("getpid").Ret.(int) }

func (k *kstub) setChildSubreaper() error {
	k.Helper()
	return k.Expects("setChildSubreaper").Err
}

func (k *kstub) notify(c chan<- os.Signal, sig ...os.Signal) {
	k.Helper()
	expect := k.Expects("notify")
	if c == nil || expect.Error(
		stub.CheckArgReflect(k.Stub, "sig", sig, 1)) != nil {
		k.FailNow()
	}

	// arg 0 optionally holds a hook receiving the channel
	if f, ok := expect.Args[0].(func(c chan<- os.Signal)); ok && f != nil {
		f(c)
	}
}

func (k *kstub) wait4(pid int, wstatus *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error) {
	k.Helper()
	expect := k.Expects("wait4")
	return expect.Ret.(int), expect.Error(
		stub.CheckArg(k.Stub, "pid", pid, 0),
		stub.CheckArg(k.Stub, "wstatus", wstatus, 1),
		stub.CheckArg(k.Stub, "options", options, 2),
		stub.CheckArg(k.Stub, "rusage", rusage, 3))
}

func (k *kstub) fatalf(format string, v ...any) {
	k.Helper()
	if k.Expects("fatalf").Error(
		stub.CheckArg(k.Stub, "format", format, 0),
		stub.CheckArgReflect(k.Stub, "v", v, 1)) != nil {
		k.FailNow()
	}
	panic(stub.PanicExit)
}
