package crossing

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// destinationPerm is the mode of created directories before umask.
const destinationPerm = 0755

// MkdirAs creates pathname and its missing parents, root to leaf, and gives every
// directory it creates to uid and gid. Path segments that already exist are left as is.
func MkdirAs(pathname string, uid, gid int) error { return mkdirAs(direct{}, pathname, uid, gid) }

func mkdirAs(k syscallDispatcher, pathname string, uid, gid int) error {
	name := strings.TrimRight(pathname, "/")
	if name == "" {
		if pathname == "" {
			return &os.PathError{Op: "mkdir", Path: pathname, Err: unix.ENOENT}
		}
		name = "/"
	}

	for i := 1; i < len(name); i++ {
		if name[i] == '/' {
			if err := mkdirSegment(k, name[:i], uid, gid); err != nil {
				return err
			}
		}
	}
	return mkdirSegment(k, name, uid, gid)
}

// mkdirSegment creates a single directory and only changes its ownership if it was created.
func mkdirSegment(k syscallDispatcher, name string, uid, gid int) error {
	if err := k.mkdir(name, destinationPerm); err != nil {
		if errors.Is(err, unix.EEXIST) {
			return nil
		}
		return err
	}
	return k.lchown(name, uid, gid)
}
