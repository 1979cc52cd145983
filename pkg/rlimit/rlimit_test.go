//go:build linux

package rlimit

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func seconds(s uint64) *uint64 {
	return &s
}

func TestPrepareRLimit(t *testing.T) {
	tests := []struct {
		name   string
		rl     RLimits
		expect []unix.Rlimit
	}{
		{
			name:   "Empty",
			rl:     RLimits{},
			expect: []unix.Rlimit{},
		},
		{
			name:   "CPU only",
			rl:     RLimits{CPU: seconds(1)},
			expect: []unix.Rlimit{{Cur: 1, Max: 2}},
		},
		{
			name:   "Zero",
			rl:     RLimits{CPU: seconds(0)},
			expect: []unix.Rlimit{{Cur: 0, Max: 1}},
		},
		{
			name:   "Infinity",
			rl:     RLimits{CPU: seconds(unix.RLIM_INFINITY)},
			expect: []unix.Rlimit{{Cur: unix.RLIM_INFINITY, Max: unix.RLIM_INFINITY}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rls := tt.rl.PrepareRLimit()
			if len(rls) != len(tt.expect) {
				t.Fatalf("expected %d rlimits, got %d", len(tt.expect), len(rls))
			}
			for i, r := range rls {
				if r.Res != unix.RLIMIT_CPU {
					t.Errorf("expected Res %d at %d, got %d", unix.RLIMIT_CPU, i, r.Res)
				}
				if r.Rlim != tt.expect[i] {
					t.Errorf("expected %v at %d, got %v", tt.expect[i], i, r.Rlim)
				}
			}
		})
	}
}

func TestRLimitString(t *testing.T) {
	tests := []struct {
		name string
		rl   RLimit
		want string
	}{
		{
			name: "CPU",
			rl:   RLimit{Res: unix.RLIMIT_CPU, Rlim: unix.Rlimit{Cur: 1, Max: 2}},
			want: "CPU[1 s:2 s]",
		},
		{
			name: "Other",
			rl:   RLimit{Res: unix.RLIMIT_NOFILE, Rlim: unix.Rlimit{Cur: 10, Max: 20}},
			want: fmt.Sprintf("Resource(%d)[10:20]", unix.RLIMIT_NOFILE),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rl.String()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRLimitsString(t *testing.T) {
	rl := RLimits{CPU: seconds(1)}
	want := "RLimits[CPU[1 s:2 s]]"
	got := rl.String()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRLimitsString_Empty(t *testing.T) {
	rl := RLimits{}
	want := "RLimits[]"
	got := rl.String()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
