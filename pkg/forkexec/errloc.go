package forkexec

import (
	"encoding/binary"
	"fmt"
	"io"
	"syscall"
)

// ErrorLocation defines the setup step where the child process failed
type ErrorLocation int

// ChildError defines the specific error and location where it failed
type ChildError struct {
	Err      syscall.Errno
	Location ErrorLocation
	// Index is the file descriptor or rlimit index, -1 if not applicable
	Index int
	// Fatal is set when the child exited because of this error
	Fatal bool
}

// Location constants
const (
	LocCloseRead ErrorLocation = iota + 1
	LocDup3
	LocFcntl
	LocFchmod
	LocChroot
	LocChdir
	LocSetGroups
	LocSetGid
	LocSetUid
	LocSetRlimit
	LocExecve
)

var locToString = []string{
	"unknown",
	"close_read",
	"dup3",
	"fcntl",
	"fchmod",
	"chroot",
	"chdir",
	"setgroups",
	"setgid",
	"setuid",
	"setrlimit",
	"execve",
}

func (e ErrorLocation) String() string {
	if e >= LocCloseRead && e <= LocExecve {
		return locToString[e]
	}
	return "unknown"
}

func (e ChildError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s(%d): %s", e.Location.String(), e.Index, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Location.String(), e.Err.Error())
}

// Unwrap returns the errno so that errors.Is(err, syscall.EPERM) works
func (e ChildError) Unwrap() error {
	return e.Err
}

// SetupLog collects the setup step failures reported by the child in order
type SetupLog []ChildError

// Launched reports whether the child reached the target program
func (l SetupLog) Launched() bool {
	for _, e := range l {
		if e.Fatal {
			return false
		}
	}
	return true
}

// childRecord is the fixed size message written by the child on the pipe
type childRecord struct {
	Location int64
	Index    int64
	Err      int64
	Fatal    int64
}

// readSetupLog reads child records until the pipe is closed by execve or exit
func readSetupLog(r io.Reader) (SetupLog, error) {
	var l SetupLog
	for {
		var rec childRecord
		err := binary.Read(r, binary.NativeEndian, &rec)
		if err == io.EOF {
			return l, nil
		}
		if err != nil {
			return l, fmt.Errorf("read setup log: %w", err)
		}
		l = append(l, ChildError{
			Err:      syscall.Errno(rec.Err),
			Location: ErrorLocation(rec.Location),
			Index:    int(rec.Index),
			Fatal:    rec.Fatal != 0,
		})
	}
}
