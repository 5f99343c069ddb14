package crossing

import (
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	// EnvNamespaces carries the user and mount namespace descriptors to the
	// namespace join taking place before the Go runtime starts, as "<user>:<mnt>".
	EnvNamespaces = "_NSTAR_SETNS"
	// EnvArchive carries the archiver descriptor across the namespace join.
	EnvArchive = "_NSTAR_ARCHIVE"
)

// Main performs the transfer described by argv, including the program name.
// joined reports whether the namespaces were joined before the Go runtime started.
// Main only returns on failure, with nil never returned.
func Main(argv []string, joined bool) error { return run(direct{}, argv, joined) }

func run(k syscallDispatcher, argv []string, joined bool) error {
	if len(argv) < 1 {
		return UsageError("missing program name")
	}
	req, err := ParseArgs(argv[1:])
	if err != nil {
		return err
	}

	archive, handoff := k.lookupEnv(EnvArchive)
	if _, ok := k.lookupEnv(EnvNamespaces); ok {
		handoff = true
	}
	if !joined {
		if handoff {
			return &StepError{"enter namespaces", errNoJoin}
		}
		return prepare(k, argv, req)
	}
	if !handoff {
		return &StepError{"enter namespaces", errNoArchive}
	}

	fd, err := strconv.Atoi(archive)
	if err != nil || fd < 0 {
		return &StepError{"receive archive", errNoArchive}
	}
	return deliver(k, req, fd)
}

// prepare opens everything that must be reached through the host view and
// replaces the process image so the namespaces are joined before the runtime starts.
func prepare(k syscallDispatcher, argv []string, req *Request) error {
	mnt, err := openNamespace(k, req.Pid, MountNamespace)
	if err != nil {
		return err
	}
	defer mnt.Close()

	usr, err := openNamespace(k, req.Pid, UserNamespace)
	if err != nil {
		return err
	}
	defer usr.Close()

	archive, err := openDescriptor(k, "open archive", req.Archiver, unix.O_RDONLY)
	if err != nil {
		return err
	}
	defer archive.release()

	return replaced("re-execute into namespaces", k.reexec(argv, []string{
		EnvNamespaces + "=" + strconv.Itoa(usr.Fd()) + ":" + strconv.Itoa(mnt.Fd()),
		EnvArchive + "=" + strconv.Itoa(archive.Fd()),
	}))
}

// deliver runs inside the container mount namespace and replaces the process image with the archiver.
func deliver(k syscallDispatcher, req *Request, archive int) error {
	// the archiver must not leak into the image it replaces this process with
	k.closeOnExec(archive)

	id, err := lookupIdentity(k, req.User)
	if err != nil {
		return err
	}
	if err = ignoringEINTR(func() error { return k.chdir(id.Home) }); err != nil {
		return &StepError{"chdir to user home", err}
	}

	p := privilege{k: k}
	if err = p.elevate(); err != nil {
		return err
	}

	if err = mkdirAs(k, req.Destination, id.Uid, id.Gid); err != nil {
		return &StepError{"mkdir destination as " + strconv.Itoa(id.Uid) + ":" + strconv.Itoa(id.Gid), err}
	}
	if err = enterDestination(k, req.Destination); err != nil {
		return err
	}

	if err = p.drop(id); err != nil {
		return err
	}
	return replaced("execveat", k.execveat(archive, req.ArchiverArgs(), []string{}))
}

// enterDestination changes the working directory to pathname by descriptor.
func enterDestination(k syscallDispatcher, pathname string) error {
	d, err := openDescriptor(k, "open container destination", pathname, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC)
	if err != nil {
		return err
	}

	if err = k.fchdir(d.Fd()); err != nil {
		d.release()
		return &StepError{"fchdir to container destination", err}
	}
	if err = d.release(); err != nil {
		return &StepError{"close container destination", err}
	}
	return nil
}

// replaced returns the error of a call that only returns on failure.
func replaced(step string, err error) error {
	if err == nil {
		err = ErrUnreachable
	}
	return &StepError{step, err}
}
