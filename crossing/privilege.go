package crossing

import "strconv"

// PrivilegeState is a step in the sequence of credential changes made inside the container.
type PrivilegeState int

const (
	// privilegeUnknown is reached when a transition fails partway.
	privilegeUnknown PrivilegeState = iota - 1

	// HostCaller holds the credentials the process was started with.
	HostCaller
	// NamespaceRoot is uid and gid 0 of the entered user namespace,
	// required to give newly created directories away to the target identity.
	NamespaceRoot
	// TargetIdentity is the resolved identity of the target user. It cannot be left.
	TargetIdentity
)

func (s PrivilegeState) String() string {
	switch s {
	case HostCaller:
		return "host caller"
	case NamespaceRoot:
		return "namespace root"
	case TargetIdentity:
		return "target identity"
	default:
		return "unknown privilege state " + strconv.Itoa(int(s))
	}
}

// privilege tracks the credentials of the current process.
// The zero value holds [HostCaller].
type privilege struct {
	k     syscallDispatcher
	state PrivilegeState
}

// State returns the current privilege state.
func (p *privilege) State() PrivilegeState { return p.state }

// transition sets the group then the user id, moving from state from to state to.
func (p *privilege) transition(from, to PrivilegeState, uid, gid int) error {
	if p.state != from {
		return &PrivilegeStateError{p.state, to}
	}

	p.state = privilegeUnknown
	if err := p.k.setgid(gid); err != nil {
		return &StepError{"setgid " + strconv.Itoa(gid), err}
	}
	if err := p.k.setuid(uid); err != nil {
		return &StepError{"setuid " + strconv.Itoa(uid), err}
	}
	p.state = to
	return nil
}

// elevate moves from [HostCaller] to [NamespaceRoot].
func (p *privilege) elevate() error { return p.transition(HostCaller, NamespaceRoot, 0, 0) }

// drop moves from [NamespaceRoot] to [TargetIdentity].
func (p *privilege) drop(id *Identity) error {
	return p.transition(NamespaceRoot, TargetIdentity, id.Uid, id.Gid)
}
