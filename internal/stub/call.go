package stub

import "slices"

// ExpectArgs holds the expected arguments of a [Call].
type ExpectArgs = [5]any

// A Call is one expected function call and its outcome.
type Call struct {
	// Name of the dispatcher method.
	Name string
	// Args are compared against the arguments the method received.
	Args ExpectArgs
	// Ret is handed back as the method's return value.
	Ret any
	// Err is handed back as the method's error.
	Err error
}

// Error returns [Call.Err] if every check passed, or [ErrCheck] otherwise.
func (c *Call) Error(ok ...bool) error {
	if slices.Contains(ok, false) {
		return ErrCheck
	}
	return c.Err
}

// C initialises a [Call].
func C(name string, args ExpectArgs, ret any, err error) Call {
	return Call{Name: name, Args: args, Ret: ret, Err: err}
}
