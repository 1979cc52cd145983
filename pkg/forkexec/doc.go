// Package forkexec provides interface to run a subprocess with its standard
// streams redirected, confined by chroot, running as an unprivileged user and
// rlimited.
//
// Every setup step in the child is best-effort: a failure is sent back to the
// parent and the child carries on with the next step. Only the final execve
// (and chroot when it is required) terminates the child on failure.
//
// dup3 requires kernel >= 2.6.27, prlimit64 requires kernel >= 2.6.36
package forkexec
