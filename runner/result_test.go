package runner

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNewResult(t *testing.T) {
	tests := []struct {
		name   string
		ws     unix.WaitStatus
		status Status
		exit   int
	}{
		{"Exit 0", 0, StatusExited, 0},
		{"Exit 2", 2 << 8, StatusExited, 2},
		{"Exit 255", 255 << 8, StatusExited, 255},
		{"Killed", unix.WaitStatus(unix.SIGKILL), StatusSignalled, int(unix.SIGKILL)},
		{"Cpu limit", unix.WaitStatus(unix.SIGXCPU) | 0x80, StatusSignalled, int(unix.SIGXCPU)},
		{"Stopped", unix.WaitStatus(0x7f | int(unix.SIGSTOP)<<8), StatusUnknown, 0x7f | int(unix.SIGSTOP)<<8},
		{"Continued", 0xffff, StatusUnknown, 0xffff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult(tt.ws, nil)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.exit, r.ExitStatus)
		})
	}
}

func TestNewResult_Usage(t *testing.T) {
	ru := unix.Rusage{
		Utime:  unix.Timeval{Sec: 1, Usec: 999999},
		Stime:  unix.Timeval{Sec: 0, Usec: 1999},
		Maxrss: 2048,
	}
	r := NewResult(0, &ru)
	assert.Equal(t, time.Second+999999*time.Microsecond, r.UserTime)
	assert.Equal(t, 1999*time.Microsecond, r.SystemTime)
	// each part is truncated before summing: 1999 + 1
	assert.Equal(t, uint64(2000), r.Milliseconds())
	assert.Equal(t, int64(2048), r.Memory)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want string
	}{
		{
			name: "Exited",
			r:    Result{Status: StatusExited, ExitStatus: 3, UserTime: 1500 * time.Millisecond, SystemTime: 20 * time.Millisecond, Memory: 1234},
			want: "EXIT_CODE=3\nTIME_MILLISECONDS=1520\nMEMORY=1234\n",
		},
		{
			name: "Signalled",
			r:    Result{Status: StatusSignalled, ExitStatus: 9},
			want: "SIGNAL=9\nTIME_MILLISECONDS=0\nMEMORY=0\n",
		},
		{
			name: "Unknown",
			r:    Result{Status: StatusUnknown, ExitStatus: 4991},
			want: "UNKNOWN=4991\nTIME_MILLISECONDS=0\nMEMORY=0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.r.Report(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSummary(t *testing.T) {
	r := Result{Status: StatusExited, ExitStatus: 0, UserTime: 2 * time.Second, SystemTime: 345 * time.Millisecond, Memory: 1024}
	assert.Equal(t, []string{
		"Exit code: 0",
		"Total time: 2 seconds and 345 milliseconds. Memory: 1024 (1.0 MiB)",
	}, r.Summary())

	r = Result{Status: StatusSignalled, ExitStatus: int(unix.SIGKILL)}
	assert.Equal(t, []string{
		"Signal: killed (SIGKILL)",
		"Total time: 0 seconds and 0 milliseconds. Memory: 0",
	}, r.Summary())

	r = Result{Status: StatusUnknown, ExitStatus: 4991}
	assert.Equal(t, "Unknown status: 4991", r.Summary()[0])
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Exited", StatusExited.String())
	assert.Equal(t, "Invalid", Status(42).String())
	assert.Equal(t, "SIGNAL", StatusSignalled.ReportKey())
	assert.Equal(t, "", Status(-1).ReportKey())
	assert.Equal(t, "", StatusInvalid.ReportKey())
}

func TestReport_ZeroResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Result{}.Report(&buf))
	assert.Empty(t, buf.String())
}
