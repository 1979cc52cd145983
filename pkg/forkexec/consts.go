package forkexec

// NoFile in Runner.Files keeps the file descriptor inherited from the parent
const NoFile = -1

// ExitSetupFailure is the exit status of the child when it could not become
// the target program
const ExitSetupFailure = 2

// defaultPath is the search path used when PATH is not in the environment
const defaultPath = "/bin:/usr/bin"

// used by chdir after chroot
var slash = [...]byte{'/', 0}
