package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// Result is the program runner result
type Result struct {
	Status         // result status
	ExitStatus int // exit code, signal number or raw wait status depending on Status

	UserTime   time.Duration // used user CPU time
	SystemTime time.Duration // used system CPU time
	Memory     int64         // peak resident memory (ru_maxrss, in KiB on linux)
}

// NewResult classifies the wait status and collects the resource usage
func NewResult(ws unix.WaitStatus, ru *unix.Rusage) Result {
	var r Result
	switch {
	case ws.Exited():
		r.Status = StatusExited
		r.ExitStatus = ws.ExitStatus()
	case ws.Signaled():
		r.Status = StatusSignalled
		r.ExitStatus = int(ws.Signal())
	default:
		r.Status = StatusUnknown
		r.ExitStatus = int(ws)
	}
	if ru != nil {
		r.UserTime = time.Duration(ru.Utime.Nano())
		r.SystemTime = time.Duration(ru.Stime.Nano())
		r.Memory = int64(ru.Maxrss)
	}
	return r
}

// Milliseconds returns the used CPU time (user + system) in ms, each part
// truncated to ms before summing
func (r Result) Milliseconds() uint64 {
	return uint64(r.UserTime/time.Millisecond) + uint64(r.SystemTime/time.Millisecond)
}

// Report writes the machine-parsable report: the outcome line followed by
// the time and memory lines. A Result not built from a wait status is
// rejected without writing anything.
func (r Result) Report(w io.Writer) error {
	if r.Status.ReportKey() == "" {
		return fmt.Errorf("runner: no outcome to report: %v", r.Status)
	}
	_, err := fmt.Fprintf(w, "%s=%d\nTIME_MILLISECONDS=%d\nMEMORY=%d\n",
		r.Status.ReportKey(), r.ExitStatus, r.Milliseconds(), r.Memory)
	return err
}

// Summary returns the human readable lines for the diagnostic stream
func (r Result) Summary() []string {
	var outcome string
	switch r.Status {
	case StatusExited:
		outcome = fmt.Sprintf("Exit code: %d", r.ExitStatus)
	case StatusSignalled:
		sig := unix.Signal(r.ExitStatus)
		outcome = fmt.Sprintf("Signal: %s", sig.String())
		if name := unix.SignalName(sig); name != "" {
			outcome += fmt.Sprintf(" (%s)", name)
		}
	default:
		outcome = fmt.Sprintf("Unknown status: %d", r.ExitStatus)
	}
	ms := r.Milliseconds()
	usage := fmt.Sprintf("Total time: %d seconds and %d milliseconds. Memory: %d", ms/1000, ms%1000, r.Memory)
	if r.Memory > 0 {
		usage += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(r.Memory)<<10))
	}
	return []string{outcome, usage}
}

func (r Result) String() string {
	switch r.Status {
	case StatusExited:
		return fmt.Sprintf("Result[Exited(%d)][%v %v %d KiB]", r.ExitStatus, r.UserTime, r.SystemTime, r.Memory)

	case StatusSignalled:
		return fmt.Sprintf("Result[Signalled(%d)][%v %v %d KiB]", r.ExitStatus, r.UserTime, r.SystemTime, r.Memory)

	default:
		return fmt.Sprintf("Result[%v(%d)][%v %v %d KiB]", r.Status, r.ExitStatus, r.UserTime, r.SystemTime, r.Memory)
	}
}
