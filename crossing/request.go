package crossing

import (
	"slices"
	"strconv"
)

// Usage is the synopsis printed after a [UsageError].
const Usage = "usage: nstar <archiver path> <target pid> <user> <destination> [files to compress]"

// Request describes a single transfer. It is not modified after [ParseArgs].
type Request struct {
	// Host path of the archiver executable.
	Archiver string
	// Process whose mount and user namespaces are entered.
	Pid int
	// Name of the user the archiver runs as, resolved inside the container.
	User string
	// Directory the archiver runs in, created if absent.
	// A relative pathname is relative to the home directory of User.
	Destination string
	// Sources of an archive written to standard output.
	// A nil slice extracts an archive read from standard input.
	Compress []string
}

// ParseArgs parses command line arguments excluding the program name.
func ParseArgs(args []string) (*Request, error) {
	if len(args) < 4 {
		return nil, UsageError("not enough arguments")
	}

	r := &Request{Archiver: args[0], User: args[2], Destination: args[3]}
	if pid, err := strconv.Atoi(args[1]); err != nil || pid < 1 {
		return nil, UsageError("invalid pid " + strconv.Quote(args[1]))
	} else {
		r.Pid = pid
	}

	switch {
	case r.Archiver == "":
		return nil, UsageError("empty archiver path")
	case r.User == "":
		return nil, UsageError("empty user name")
	case r.Destination == "":
		return nil, UsageError("empty destination")
	}

	if len(args) > 4 {
		r.Compress = slices.Clone(args[4:])
	}
	return r, nil
}

// Args returns the command line arguments describing r, excluding the program name.
func (r *Request) Args() []string {
	return append([]string{r.Archiver, strconv.Itoa(r.Pid), r.User, r.Destination}, r.Compress...)
}

// ArchiverArgs returns the argument vector of the archiver.
func (r *Request) ArchiverArgs() []string {
	if r.Compress != nil {
		return append([]string{"tar", "cf", "-"}, r.Compress...)
	}
	return []string{"tar", "xf", "-"}
}
