// Package rlimit provides data structure for resource limits by setrlimit syscall on linux.
package rlimit

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// RLimits defines the rlimit applied by setrlimit syscall to the child process
type RLimits struct {
	CPU *uint64 // in s, nil for no limit
}

// RLimit is the resource limits defined by Linux setrlimit
type RLimit struct {
	// Res is the resource type (e.g. unix.RLIMIT_CPU)
	Res int
	// Rlim is the limit applied to that resource
	Rlim unix.Rlimit
}

func getRlimit(cur, max uint64) unix.Rlimit {
	return unix.Rlimit{Cur: cur, Max: max}
}

// PrepareRLimit creates rlimit structures for the child
// CPU in s, the hard limit leaves one more second for the SIGXCPU
// to be delivered before SIGKILL
func (r *RLimits) PrepareRLimit() []RLimit {
	var ret []RLimit
	if r.CPU != nil {
		cpu := *r.CPU
		cpuHard := cpu + 1
		if cpu == unix.RLIM_INFINITY {
			cpuHard = unix.RLIM_INFINITY
		}
		ret = append(ret, RLimit{
			Res:  unix.RLIMIT_CPU,
			Rlim: getRlimit(cpu, cpuHard),
		})
	}
	return ret
}

func (r RLimit) String() string {
	if r.Res == unix.RLIMIT_CPU {
		return fmt.Sprintf("CPU[%d s:%d s]", r.Rlim.Cur, r.Rlim.Max)
	}
	return fmt.Sprintf("Resource(%d)[%d:%d]", r.Res, r.Rlim.Cur, r.Rlim.Max)
}

func (r RLimits) String() string {
	var sb strings.Builder
	sb.WriteString("RLimits[")
	for i, rl := range r.PrepareRLimit() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(rl.String())
	}
	sb.WriteString("]")
	return sb.String()
}
