package stub

import (
	"errors"
	"strconv"
)

// ErrCheck is returned by a stubbed call whose arguments did not match.
var ErrCheck = errors.New("one or more arguments did not match")

// UniqueError only matches another UniqueError holding the same value.
type UniqueError uintptr

func (e UniqueError) Error() string {
	return "unique error " + strconv.Itoa(int(e)) + " injected by the test suite"
}

func (e UniqueError) Is(target error) bool {
	var u UniqueError
	return errors.As(target, &u) && u == e
}
