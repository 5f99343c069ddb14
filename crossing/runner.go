package crossing

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

// defaultUser is the user transfers run as when none is specified.
const defaultUser = "root"

// Runner streams archives in and out of containers through the nstar helper.
type Runner struct {
	nstarPath    string
	archiverPath string

	log     logrus.FieldLogger
	command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewRunner returns a [Runner] invoking the helper at nstarPath with the archiver at archiverPath.
func NewRunner(nstarPath, archiverPath string, log logrus.FieldLogger) *Runner {
	return &Runner{
		nstarPath:    nstarPath,
		archiverPath: archiverPath,
		log:          log,
		command:      exec.CommandContext,
	}
}

// SetCommand sets the command function used by the struct.
// To be used for testing only
func (r *Runner) SetCommand(cmd func(ctx context.Context, name string, arg ...string) *exec.Cmd) {
	r.command = cmd
}

func (r *Runner) request(pid int, user, destination string, compress []string) *Request {
	if user == "" {
		user = defaultUser
	}
	return &Request{
		Archiver:    r.archiverPath,
		Pid:         pid,
		User:        user,
		Destination: destination,
		Compress:    compress,
	}
}

func (r *Runner) entry(req *Request, path string) logrus.FieldLogger {
	return r.log.WithFields(logrus.Fields{"pid": req.Pid, "path": path, "user": req.User})
}

// StreamIn extracts the archive read from in to path inside the container of process pid.
func (r *Runner) StreamIn(ctx context.Context, pid int, path, user string, in io.Reader) error {
	req := r.request(pid, user, path, nil)
	log := r.entry(req, path)

	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, r.nstarPath, req.Args()...)
	cmd.Stdin = in
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("streaming in")
	if err := cmd.Run(); err != nil {
		log.WithError(err).Warn("stream in failed")
		return helperError("stream in", err, &stderr, &stdout)
	}
	return nil
}

// StreamOut returns the archive of path inside the container of process pid.
// A path ending in a slash archives the contents of the directory rather than the directory itself.
//
// Reaching the end of the stream waits for the helper and returns its failure in place of [io.EOF].
// The caller must call Close on the returned [io.ReadCloser].
func (r *Runner) StreamOut(ctx context.Context, pid int, path, user string) (io.ReadCloser, error) {
	destination, source := path, "."
	if !strings.HasSuffix(path, "/") {
		destination, source = filepath.Dir(path), filepath.Base(path)
	}
	req := r.request(pid, user, destination, []string{source})
	log := r.entry(req, path)

	s := &outStream{log: log}
	s.cmd = r.command(ctx, r.nstarPath, req.Args()...)
	s.cmd.Stderr = &s.stderr
	pipe, err := s.cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	s.ReadCloser = pipe

	log.Debug("streaming out")
	if err = s.cmd.Start(); err != nil {
		log.WithError(err).Warn("stream out failed")
		return nil, helperError("stream out", err, &s.stderr, nil)
	}
	return s, nil
}

// outStream is the standard output of a running helper.
type outStream struct {
	io.ReadCloser
	cmd    *exec.Cmd
	stderr bytes.Buffer
	log    logrus.FieldLogger

	once sync.Once
	err  error
}

func (s *outStream) Read(p []byte) (n int, err error) {
	n, err = s.ReadCloser.Read(p)
	if err == io.EOF {
		if werr := s.wait(); werr != nil {
			err = werr
		}
	}
	return
}

// Close releases the pipe and waits for the helper. It returns the failure of the helper if any.
func (s *outStream) Close() error {
	cerr := s.ReadCloser.Close()
	if err := s.wait(); err != nil {
		return err
	}
	// the pipe is already closed if the stream was read to the end
	if errors.Is(cerr, os.ErrClosed) {
		return nil
	}
	return cerr
}

func (s *outStream) wait() error {
	s.once.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			s.log.WithError(err).Warn("stream out failed")
			s.err = helperError("stream out", err, &s.stderr, nil)
		}
	})
	return s.err
}

// helperError describes a failed helper along with its output.
func helperError(op string, err error, stderr, stdout *bytes.Buffer) error {
	if stdout == nil {
		return errors.Errorf("%s: %v (stderr: %q)", op, err, stderr.String())
	}
	return errors.Errorf("%s: %v (stderr: %q, stdout: %q)", op, err, stderr.String(), stdout.String())
}
