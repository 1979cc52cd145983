package forkexec

import (
	"syscall"

	"github.com/criyle/go-launcher/pkg/rlimit"
)

// Runner is the configuration including the exec path, argv, the standard
// stream redirection and the restrictions applied before execve.
type Runner struct {
	// argv and env for execve syscall for the child process
	// Args[0] is searched in the PATH of Env if it does not contain a slash
	Args []string
	Env  []string

	// file disriptors map for new process, from 0 to len - 1
	// NoFile keeps the inherited file descriptor
	Files []int

	// FileMode is applied by fchmod to every redirected file descriptor,
	// 0 skips the step
	FileMode uint32

	// Chmod selects the entries of Files changed to FileMode,
	// nil selects every redirected entry
	Chmod []bool

	// chroot confines the child into the directory and chdir to the new root
	Chroot string

	// StrictChroot terminates the child if chroot fails, otherwise the
	// failure is reported and the child runs unconfined
	StrictChroot bool

	// Credential holds user and group identities to be assumed
	// by the child process before execve. Group is set before user.
	Credential *syscall.Credential

	// POSIX Resource limit set by prlimit
	RLimits []rlimit.RLimit
}
