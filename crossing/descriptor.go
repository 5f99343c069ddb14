package crossing

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// descriptor is an owned file descriptor, released at most once.
type descriptor struct {
	k  syscallDispatcher
	fd int
}

// openDescriptor opens name, reporting failure as step.
func openDescriptor(k syscallDispatcher, step, name string, mode int) (*descriptor, error) {
	var fd int
	if err := ignoringEINTR(func() (err error) {
		fd, err = k.open(name, mode, 0)
		return
	}); err != nil {
		return nil, &StepError{step, err}
	}
	return &descriptor{k, fd}, nil
}

// Fd returns the descriptor number, or -1 if it has been released.
func (d *descriptor) Fd() int { return d.fd }

// release closes the descriptor. Releasing it again is a no-op.
func (d *descriptor) release() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	fd := d.fd
	d.fd = -1
	return d.k.close(fd)
}

const (
	// MountNamespace is the name of the mount namespace object under /proc/<pid>/ns.
	MountNamespace = "mnt"
	// UserNamespace is the name of the user namespace object under /proc/<pid>/ns.
	UserNamespace = "user"
)

// NamespacePath returns the pathname of namespace object kind of process pid.
func NamespacePath(pid int, kind string) string {
	return "/proc/" + strconv.Itoa(pid) + "/ns/" + kind
}

// Namespace is an open reference to a namespace object of the target process.
// The descriptor is inherited across the handoff and released by the namespace join.
type Namespace struct {
	Kind string
	*descriptor
}

func openNamespace(k syscallDispatcher, pid int, kind string) (*Namespace, error) {
	d, err := openDescriptor(k, "open "+kind+" namespace", NamespacePath(pid, kind), unix.O_RDONLY)
	if err != nil {
		return nil, err
	}
	return &Namespace{kind, d}, nil
}

// Close releases the namespace reference.
func (ns *Namespace) Close() error { return ns.release() }

// ignoringEINTR calls fn until it returns an error other than EINTR.
func ignoringEINTR(fn func() error) error {
	for {
		if err := fn(); err != unix.EINTR {
			return err
		}
	}
}
