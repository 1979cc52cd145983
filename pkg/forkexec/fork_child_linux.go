package forkexec

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Reference to src/syscall/exec_linux.go
//
//go:norace
func forkAndExecInChild(r *Runner, argv, env, paths []*byte, chroot *byte, p [2]int) (r1 uintptr, err1 syscall.Errno) {
	// similar to exec_linux, avoid side effect by shuffling around
	fd, nextfd := prepareFds(r.Files)

	// Acquire the fork lock so that no other threads
	// create new fds that are not yet close-on-exec
	// before we fork.
	syscall.ForkLock.Lock()

	// About to call fork.
	// No more allocation or calls of non-assembly functions.
	beforeFork()

	r1, _, err1 = syscall.RawSyscall6(syscall.SYS_CLONE, uintptr(syscall.SIGCHLD), 0, 0, 0, 0, 0)
	if err1 != 0 || r1 != 0 {
		// in parent process, immediate return
		return
	}

	// In child process
	afterForkInChild()
	// Notice: cannot call any GO functions beyond this point

	pipe := p[1]
	var eacces bool

	// Close read end of pipe
	if _, _, err1 = syscall.RawSyscall(syscall.SYS_CLOSE, uintptr(p[0]), 0, 0); err1 != 0 {
		childReport(pipe, LocCloseRead, -1, err1)
	}

	// Pass 1 & pass 2 assigns fds for child process
	// Pass 1: fd[i] < i => nextfd
	if pipe < nextfd {
		_, _, err1 = syscall.RawSyscall(syscall.SYS_DUP3, uintptr(pipe), uintptr(nextfd), syscall.O_CLOEXEC)
		if err1 == 0 {
			pipe = nextfd
			nextfd++
		}
	}
	for i := 0; i < len(fd); i++ {
		if fd[i] >= 0 && fd[i] < i {
			// Avoid fd rewrite
			for nextfd == pipe {
				nextfd++
			}
			_, _, err1 = syscall.RawSyscall(syscall.SYS_DUP3, uintptr(fd[i]), uintptr(nextfd), syscall.O_CLOEXEC)
			if err1 != 0 {
				childReport(pipe, LocDup3, i, err1)
				fd[i] = NoFile
				continue
			}
			fd[i] = nextfd
			nextfd++
		}
	}
	// Pass 2: fd[i] => i
	for i := 0; i < len(fd); i++ {
		if fd[i] == NoFile {
			continue
		}
		if fd[i] == i {
			// dup2(i, i) will not clear close on exec flag, need to reset the flag
			_, _, err1 = syscall.RawSyscall(syscall.SYS_FCNTL, uintptr(fd[i]), syscall.F_SETFD, 0)
			if err1 != 0 {
				childReport(pipe, LocFcntl, i, err1)
				fd[i] = NoFile
			}
			continue
		}
		_, _, err1 = syscall.RawSyscall(syscall.SYS_DUP3, uintptr(fd[i]), uintptr(i), 0)
		if err1 != 0 {
			childReport(pipe, LocDup3, i, err1)
			fd[i] = NoFile
		}
	}

	// Owner only access to the redirected files
	if r.FileMode != 0 {
		for i := 0; i < len(fd); i++ {
			if fd[i] == NoFile || (r.Chmod != nil && (i >= len(r.Chmod) || !r.Chmod[i])) {
				continue
			}
			_, _, err1 = syscall.RawSyscall(syscall.SYS_FCHMOD, uintptr(i), uintptr(r.FileMode), 0)
			if err1 != 0 {
				childReport(pipe, LocFchmod, i, err1)
			}
		}
	}

	// chroot and chdir into the new root
	if chroot != nil {
		_, _, err1 = syscall.RawSyscall(syscall.SYS_CHROOT, uintptr(unsafe.Pointer(chroot)), 0, 0)
		if err1 != 0 {
			if r.StrictChroot {
				childExitError(pipe, LocChroot, -1, err1)
			}
			childReport(pipe, LocChroot, -1, err1)
		} else {
			_, _, err1 = syscall.RawSyscall(syscall.SYS_CHDIR, uintptr(unsafe.Pointer(&slash[0])), 0, 0)
			if err1 != 0 {
				if r.StrictChroot {
					childExitError(pipe, LocChdir, -1, err1)
				}
				childReport(pipe, LocChdir, -1, err1)
			}
		}
	}

	// set the credential for the child process(exec_linux.go)
	// group must be changed while still privileged
	if cred := r.Credential; cred != nil {
		if !cred.NoSetGroups {
			ngroups := uintptr(len(cred.Groups))
			groups := uintptr(0)
			if ngroups > 0 {
				groups = uintptr(unsafe.Pointer(&cred.Groups[0]))
			}
			_, _, err1 = syscall.RawSyscall(unix.SYS_SETGROUPS, ngroups, groups, 0)
			if err1 != 0 {
				childReport(pipe, LocSetGroups, -1, err1)
			}
		}
		_, _, err1 = syscall.RawSyscall(unix.SYS_SETGID, uintptr(cred.Gid), 0, 0)
		if err1 != 0 {
			childReport(pipe, LocSetGid, -1, err1)
		}
		_, _, err1 = syscall.RawSyscall(unix.SYS_SETUID, uintptr(cred.Uid), 0, 0)
		if err1 != 0 {
			childReport(pipe, LocSetUid, -1, err1)
		}
	}

	// Set limit
	for i, rlim := range r.RLimits {
		// prlimit instead of setrlimit to avoid 32-bit limitation (linux > 3.2)
		_, _, err1 = syscall.RawSyscall6(syscall.SYS_PRLIMIT64, 0, uintptr(rlim.Res), uintptr(unsafe.Pointer(&rlim.Rlim)), 0, 0, 0)
		if err1 != 0 {
			childReport(pipe, LocSetRlimit, i, err1)
		}
	}

	// time to exec, search the candidates the way execvp does
	err1 = syscall.ENOENT
	for i := 0; i < len(paths); i++ {
		_, _, err1 = syscall.RawSyscall(unix.SYS_EXECVE, uintptr(unsafe.Pointer(paths[i])),
			uintptr(unsafe.Pointer(&argv[0])), uintptr(unsafe.Pointer(&env[0])))
		if err1 == syscall.EACCES {
			eacces = true
			continue
		}
		if err1 == syscall.ENOENT || err1 == syscall.ENOTDIR || err1 == syscall.ESTALE ||
			err1 == syscall.ENODEV || err1 == syscall.ETIMEDOUT {
			continue
		}
		break
	}
	if eacces && (err1 == syscall.ENOENT || err1 == syscall.ENOTDIR || err1 == syscall.ESTALE ||
		err1 == syscall.ENODEV || err1 == syscall.ETIMEDOUT) {
		err1 = syscall.EACCES
	}
	childExitError(pipe, LocExecve, -1, err1)
	return
}

//go:nosplit
func childReport(pipe int, loc ErrorLocation, idx int, err syscall.Errno) {
	rec := childRecord{
		Location: int64(loc),
		Index:    int64(idx),
		Err:      int64(err),
	}

	// send error code on pipe
	syscall.RawSyscall(unix.SYS_WRITE, uintptr(pipe), uintptr(unsafe.Pointer(&rec)), unsafe.Sizeof(rec))
}

//go:nosplit
func childExitError(pipe int, loc ErrorLocation, idx int, err syscall.Errno) {
	rec := childRecord{
		Location: int64(loc),
		Index:    int64(idx),
		Err:      int64(err),
		Fatal:    1,
	}

	// send error code on pipe
	syscall.RawSyscall(unix.SYS_WRITE, uintptr(pipe), uintptr(unsafe.Pointer(&rec)), unsafe.Sizeof(rec))
	for {
		syscall.RawSyscall(syscall.SYS_EXIT, ExitSetupFailure, 0, 0)
	}
}
