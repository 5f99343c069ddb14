// Package supervisor implements the init process of a container's pid namespace.
//
// The supervisor waits for signals and, on every signal it receives, collects all
// terminated descendants so that zombies never accumulate in the namespace.
// It never exits on its own accord: when pid 1 of a namespace exits, the kernel
// kills every other process in it.
package supervisor

import (
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// sigQueue is the capacity of the signal channel. Signals arriving while the
// queue is full are dropped, which is harmless since any signal triggers a full reap.
const sigQueue = 16

// Main configures logging and runs the supervisor. Main only returns by terminating the process.
func Main() {
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(os.Stdout)

	serve(direct{})
}

// serve waits for signals and reaps after each one until the signal channel is closed.
// The channel of [signal.Notify] is never closed, so on a real kernel serve does not return.
func serve(k syscallDispatcher) {
	if k.getpid() != 1 {
		// orphaned descendants are reparented to the nearest subreaper instead of the real init
		if err := k.setChildSubreaper(); err != nil {
			k.fatalf("failed to set child subreaper: %v", err)
		}
	}

	sig := make(chan os.Signal, sigQueue)
	k.notify(sig, NewSignalMask().Signals()...)

	for range sig {
		if err := reap(k); err != nil {
			k.fatalf("failed to reap children: %v", err)
		}
	}
}

// reap collects terminated children, discarding their status, until none are left.
// A nil error means the process has no more children.
func reap(k syscallDispatcher) error {
	for {
		_, err := k.wait4(-1, nil, 0, nil)
		switch err {
		case nil, unix.EINTR:
			continue

		case unix.ECHILD:
			return nil

		default:
			return err
		}
	}
}
