package crossing

// Identity is a user resolved through the user database of the container.
// Its numeric ids are relative to the user namespace it was resolved in.
type Identity struct {
	Uid, Gid int
	Home     string
}

// lookupIdentity resolves name. It must only be called after the mount namespace is entered.
func lookupIdentity(k syscallDispatcher, name string) (*Identity, error) {
	u, err := k.lookupUser(name)
	if err != nil {
		return nil, &StepError{"look up user " + name, err}
	}
	return &Identity{u.Uid, u.Gid, u.Home}, nil
}
