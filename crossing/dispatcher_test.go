package crossing

import (
	"os"

	"git.ophivana.moe/security/crossing/internal/stub"
	"github.com/moby/sys/user"
)

type kstub struct{ *stub.Stub }

func (k *kstub) lookupEnv(key string) (string, bool) {
	k.Helper()
	expect := k.Expects("lookupEnv")
	if expect.Error(
		stub.CheckArg(k.Stub, "key", key, 0)) != nil {
		k.FailNow()
	}
	if expect.Ret == nil {
		return "", false
	}
	return expect.Ret.(string), true
}

func (k *kstub) open(path string, mode int, perm uint32) (int, error) {
	k.Helper()
	expect := k.Expects("open")
	return expect.Ret.(int), expect.Error(
		stub.CheckArg(k.Stub, "path", path, 0),
		stub.CheckArg(k.Stub, "mode", mode, 1),
		stub.CheckArg(k.Stub, "perm", perm, 2))
}

func (k *kstub) close(fd int) error {
	k.Helper()
	return k.Expects("close").Error(
		stub.CheckArg(k.Stub, "fd", fd, 0))
}

func (k *kstub) closeOnExec(fd int) {
	k.Helper()
	if k.Expects("closeOnExec").Error(
		stub.CheckArg(k.Stub, "fd", fd, 0)) != nil {
		k.FailNow()
	}
}

func (k *kstub) reexec(argv, envv []string) error {
	k.Helper()
	return k.Expects("reexec").Error(
		stub.CheckArgReflect(k.Stub, "argv", argv, 0),
		stub.CheckArgReflect(k.Stub, "envv", envv, 1))
}

func (k *kstub) execveat(fd int, argv, envv []string) error {
	k.Helper()
	return k.Expects("execveat").Error(
		stub.CheckArg(k.Stub, "fd", fd, 0),
		stub.CheckArgReflect(k.Stub, "argv", argv, 1),
		stub.CheckArgReflect(k.Stub, "envv", envv, 2))
}

func (k *kstub) lookupUser(name string) (user.User, error) {
	k.Helper()
	expect := k.Expects("lookupUser")
	var u user.User
	if expect.Ret != nil {
		u = expect.Ret.(user.User)
	}
	return u, expect.Error(
		stub.CheckArg(k.Stub, "name", name, 0))
}

func (k *kstub) chdir(path string) error {
	k.Helper()
	return k.Expects("chdir").Error(
		stub.CheckArg(k.Stub, "path", path, 0))
}

func (k *kstub) fchdir(fd int) error {
	k.Helper()
	return k.Expects("fchdir").Error(
		stub.CheckArg(k.Stub, "fd", fd, 0))
}

func (k *kstub) setgid(gid int) error {
	k.Helper()
	return k.Expects("setgid").Error(
		stub.CheckArg(k.Stub, "gid", gid, 0))
}

func (k *kstub) setuid(uid int) error {
	k.Helper()
	return k.Expects("setuid").Error(
		stub.CheckArg(k.Stub, "uid", uid, 0))
}

func (k *kstub) mkdir(name string, perm os.FileMode) error {
	k.Helper()
	return k.Expects("mkdir").Error(
		stub.CheckArg(k.Stub, "name", name, 0),
		stub.CheckArg(k.Stub, "perm", perm, 1))
}

func (k *kstub) lchown(name string, uid, gid int) error {
	k.Helper()
	return k.Expects("lchown").Error(
		stub.CheckArg(k.Stub, "name", name, 0),
		stub.CheckArg(k.Stub, "uid", uid, 1),
		stub.CheckArg(k.Stub, "gid", gid, 2))
}
