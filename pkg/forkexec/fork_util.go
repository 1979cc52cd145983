package forkexec

import (
	"strings"
	"syscall"
)

// prepareExec prepares execve parameters
func prepareExec(Args, Env []string) ([]*byte, []*byte, error) {
	// make exec args
	argv, err := syscall.SlicePtrFromStrings(Args)
	if err != nil {
		return nil, nil, err
	}
	// make env
	env, err := syscall.SlicePtrFromStrings(Env)
	if err != nil {
		return nil, nil, err
	}
	return argv, env, nil
}

// prepareExecPaths prepares the candidate paths tried by execve in order
func prepareExecPaths(file string, env []string) ([]*byte, error) {
	candidates := lookPathCandidates(file, env)
	paths := make([]*byte, 0, len(candidates))
	for _, c := range candidates {
		p, err := syscall.BytePtrFromString(c)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// lookPathCandidates lists the paths execvp would try for file. The paths
// are resolved by the child, after chroot.
func lookPathCandidates(file string, env []string) []string {
	if file == "" || strings.Contains(file, "/") {
		return []string{file}
	}
	path, ok := getenv(env, "PATH")
	if !ok {
		path = defaultPath
	}
	dirs := strings.Split(path, ":")
	ret := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		// empty entry is the current directory
		if dir == "" {
			dir = "."
		}
		ret = append(ret, strings.TrimSuffix(dir, "/")+"/"+file)
	}
	return ret
}

func getenv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// prepareFds prepares fd array
func prepareFds(files []int) ([]int, int) {
	fd := make([]int, len(files))
	nextfd := len(files)
	for i, ufd := range files {
		if nextfd < ufd {
			nextfd = ufd
		}
		fd[i] = ufd
	}
	nextfd++
	return fd, nextfd
}

// syscallStringFromString prepares *byte if string is not empty, other wise nil
func syscallStringFromString(str string) (*byte, error) {
	if str != "" {
		return syscall.BytePtrFromString(str)
	}
	return nil, nil
}
