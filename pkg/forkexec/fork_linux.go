package forkexec

import (
	"errors"
	"os"
	"syscall"
	_ "unsafe" // required for go:linkname.

	"golang.org/x/sys/unix"
)

//go:linkname beforeFork syscall.runtime_BeforeFork
func beforeFork()

//go:linkname afterFork syscall.runtime_AfterFork
func afterFork()

//go:linkname afterForkInChild syscall.runtime_AfterForkInChild
func afterForkInChild()

// Start will fork, set up the child and execve.
// It returns once the child has called execve or exited, together with the
// failed setup steps reported by the child. If pid is not 0, the caller
// owns the child and must wait for it, even when err is not nil.
func (r *Runner) Start() (int, SetupLog, error) {
	if len(r.Args) == 0 {
		return 0, nil, errors.New("forkexec: no program to execute")
	}

	argv, env, err := prepareExec(r.Args, r.Env)
	if err != nil {
		return 0, nil, err
	}

	// candidate paths searched by execve
	paths, err := prepareExecPaths(r.Args[0], r.Env)
	if err != nil {
		return 0, nil, err
	}

	// prepare chroot param
	chroot, err := syscallStringFromString(r.Chroot)
	if err != nil {
		return 0, nil, err
	}

	// socketpair p is used by child to report failed steps
	// it is closed on execve so that parent reads EOF
	// p[0] is used by parent and p[1] is used by child
	p, err := syscall.Socketpair(syscall.AF_LOCAL, syscall.SOCK_STREAM|syscall.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, nil, err
	}

	// fork in child
	pid, err1 := forkAndExecInChild(r, argv, env, paths, chroot, p)

	// restore all signals
	afterFork()
	syscall.ForkLock.Unlock()

	return syncWithChild(p, int(pid), err1)
}

func syncWithChild(p [2]int, pid int, err1 syscall.Errno) (int, SetupLog, error) {
	unix.Close(p[1])

	// clone syscall failed
	if err1 != 0 {
		unix.Close(p[0])
		return 0, nil, err1
	}

	f := os.NewFile(uintptr(p[0]), "forkexec")
	defer f.Close()

	setup, err := readSetupLog(f)
	return pid, setup, err
}
