// Package nsenter joins the namespaces handed off by [crossing.Main] before the Go runtime starts.
//
// The Go runtime is multithreaded by the time main runs, and the kernel refuses
// setns for a user namespace from a multithreaded process. Importing this package
// registers a constructor which runs while the process is still single-threaded.
package nsenter

/*
#define _GNU_SOURCE
#include <errno.h>
#include <sched.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <unistd.h>

#define NSENTER_ENV "_NSTAR_SETNS"

static int nsenter_joined = 0;

static int nsenter_parse_fd(const char *s, char **end) {
  long fd;

  errno = 0;
  fd = strtol(s, end, 10);
  if (errno != 0 || *end == s || fd < 0 || fd > 0x7fffffff)
    return -1;
  return (int)fd;
}

__attribute__((constructor)) static void nsenter(void) {
  const char *val;
  char *end;
  int usrnsfd, mntnsfd;

  val = getenv(NSENTER_ENV);
  if (val == NULL)
    return;

  usrnsfd = nsenter_parse_fd(val, &end);
  if (usrnsfd < 0 || *end != ':') {
    fprintf(stderr, "nstar: setns: invalid handoff %s\n", val);
    exit(1);
  }
  mntnsfd = nsenter_parse_fd(end + 1, &end);
  if (mntnsfd < 0 || *end != '\0') {
    fprintf(stderr, "nstar: setns: invalid handoff %s\n", val);
    exit(1);
  }

  // the target is not necessarily user-namespaced
  setns(usrnsfd, CLONE_NEWUSER);
  close(usrnsfd);

  if (setns(mntnsfd, CLONE_NEWNS) == -1) {
    fprintf(stderr, "nstar: setns: %s\n", strerror(errno));
    exit(1);
  }
  close(mntnsfd);

  unsetenv(NSENTER_ENV);
  nsenter_joined = 1;
}

static int nsenter_has_joined(void) { return nsenter_joined; }
static const char *nsenter_env(void) { return NSENTER_ENV; }
*/
import "C"

// Joined reports whether the namespaces were joined by the constructor.
func Joined() bool { return C.nsenter_has_joined() != 0 }

// envName returns the name of the handoff variable read by the constructor.
func envName() string { return C.GoString(C.nsenter_env()) }
