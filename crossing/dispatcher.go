package crossing

import (
	"os"
	"unsafe"

	"github.com/moby/sys/user"
	"golang.org/x/sys/unix"
)

// syscallDispatcher provides methods that make state-dependent system calls as part of their behaviour.
type syscallDispatcher interface {
	// lookupEnv provides [os.LookupEnv].
	lookupEnv(key string) (string, bool)

	// open provides [unix.Open].
	open(path string, mode int, perm uint32) (fd int, err error)
	// close provides [unix.Close].
	close(fd int) error
	// closeOnExec provides [unix.CloseOnExec].
	closeOnExec(fd int)

	// reexec replaces the process image with the current executable.
	reexec(argv, envv []string) error
	// execveat replaces the process image with the executable open at fd.
	execveat(fd int, argv, envv []string) error

	// lookupUser provides [user.LookupUser].
	lookupUser(name string) (user.User, error)

	// chdir provides [unix.Chdir].
	chdir(path string) error
	// fchdir provides [unix.Fchdir].
	fchdir(fd int) error
	// setgid provides [unix.Setgid].
	setgid(gid int) error
	// setuid provides [unix.Setuid].
	setuid(uid int) error

	// mkdir provides [os.Mkdir].
	mkdir(name string, perm os.FileMode) error
	// lchown provides [os.Lchown].
	lchown(name string, uid, gid int) error
}

// direct implements syscallDispatcher on the current kernel.
type direct struct{}

func (direct) lookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

func (direct) open(path string, mode int, perm uint32) (int, error) {
	return unix.Open(path, mode, perm)
}
func (direct) close(fd int) error   { return unix.Close(fd) }
func (direct) closeOnExec(fd int)   { unix.CloseOnExec(fd) }
func (direct) chdir(p string) error { return unix.Chdir(p) }
func (direct) fchdir(fd int) error  { return unix.Fchdir(fd) }
func (direct) setgid(gid int) error { return unix.Setgid(gid) }
func (direct) setuid(uid int) error { return unix.Setuid(uid) }

func (direct) reexec(argv, envv []string) error {
	return unix.Exec("/proc/self/exe", argv, envv)
}
func (direct) execveat(fd int, argv, envv []string) error {
	return execveat(fd, "", argv, envv, unix.AT_EMPTY_PATH)
}

func (direct) lookupUser(name string) (user.User, error) { return user.LookupUser(name) }

func (direct) mkdir(name string, perm os.FileMode) error { return os.Mkdir(name, perm) }
func (direct) lchown(name string, uid, gid int) error    { return os.Lchown(name, uid, gid) }

// execveat wraps the execveat system call, which [unix] does not provide.
// It only returns on failure.
func execveat(dirfd int, pathname string, argv, envv []string, flags int) error {
	pathp, err := unix.BytePtrFromString(pathname)
	if err != nil {
		return err
	}
	argvp, err := nullTerminated(argv)
	if err != nil {
		return err
	}
	envvp, err := nullTerminated(envv)
	if err != nil {
		return err
	}

	_, _, errno := unix.Syscall6(unix.SYS_EXECVEAT,
		uintptr(dirfd),
		uintptr(unsafe.Pointer(pathp)),
		uintptr(unsafe.Pointer(&argvp[0])),
		uintptr(unsafe.Pointer(&envvp[0])),
		uintptr(flags), 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// nullTerminated converts ss to a NULL-terminated array of C strings.
func nullTerminated(ss []string) ([]*byte, error) {
	p := make([]*byte, len(ss)+1)
	for i, s := range ss {
		b, err := unix.BytePtrFromString(s)
		if err != nil {
			return nil, err
		}
		p[i] = b
	}
	return p, nil
}
