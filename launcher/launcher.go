// Package launcher runs one target program under the configured restrictions
// and reports its outcome.
//
// The launcher forks once. The child redirects its standard streams,
// tightens their permissions, optionally chroots, drops to the unprivileged
// identity, applies the CPU limit and becomes the target program. The parent
// waits for it and writes the report on stdout and a human summary on the
// diagnostic logger.
package launcher

import (
	"io"
	"syscall"

	"go.uber.org/zap"

	"github.com/criyle/go-launcher/config"
	"github.com/criyle/go-launcher/pkg/forkexec"
	"github.com/criyle/go-launcher/pkg/rlimit"
	"github.com/criyle/go-launcher/runner"
)

// Process exit codes of the launcher
const (
	ExitOK      = 0 // report written, whatever the child outcome
	ExitFailure = 1 // no target, fork or wait failure, no report
)

// Launcher supervises one child process end-to-end
type Launcher struct {
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
	env    []string
}

// New creates a Launcher. env is the environment of the target program with
// the CPU limit variable already consumed into cfg.
func New(cfg *config.Config, env []string, log *zap.Logger, stdout io.Writer) *Launcher {
	return &Launcher{
		cfg:    cfg,
		log:    log,
		stdout: stdout,
		env:    env,
	}
}

// Run runs args[0] with args as its argument list and returns the exit code
// of the launcher
func (l *Launcher) Run(args []string) int {
	if len(args) == 0 {
		l.log.Error("usage: launcher <target-program> [args...]")
		return ExitFailure
	}

	files, err := openStreams(l.cfg, l.log)
	if err != nil {
		l.log.Error("failed to open streams", zap.Error(err))
		return ExitFailure
	}
	defer files.close()

	r := l.newRunner(args, files)
	l.log.Debug("starting",
		zap.Strings("args", args),
		zap.String("chroot", r.Chroot),
		zap.Stringer("rlimits", rlimit.RLimits{CPU: l.cfg.TimeLimit}))

	pid, setup, err := r.Start()
	if pid == 0 {
		l.log.Error("failed to start child", zap.Error(err))
		return ExitFailure
	}
	if err != nil {
		l.log.Error("lost setup log of child", zap.Int("pid", pid), zap.Error(err))
	}
	// child copies are no longer needed, close before the long wait
	files.close()

	for _, e := range setup {
		if !e.Fatal {
			l.log.Warn("setup step failed", stepFields(e)...)
		}
	}
	if !setup.Launched() {
		// the fatal record is the last one written before the child exits
		l.log.Error("launch failed", stepFields(setup[len(setup)-1])...)
	}

	rt, err := runner.Wait(pid)
	if err != nil {
		l.log.Error("failed to wait child", zap.Int("pid", pid), zap.Error(err))
		return ExitFailure
	}
	l.log.Debug("finished", zap.Stringer("result", rt))

	if err := rt.Report(l.stdout); err != nil {
		l.log.Error("failed to write report", zap.Error(err))
		return ExitFailure
	}
	for _, line := range rt.Summary() {
		l.log.Info(line)
	}
	return ExitOK
}

func (l *Launcher) newRunner(args []string, files *streams) *forkexec.Runner {
	var cred *syscall.Credential
	if l.cfg.UID >= 0 && l.cfg.GID >= 0 {
		cred = &syscall.Credential{
			Uid: uint32(l.cfg.UID),
			Gid: uint32(l.cfg.GID),
		}
	}

	rlims := rlimit.RLimits{CPU: l.cfg.TimeLimit}
	return &forkexec.Runner{
		Args:         args,
		Env:          l.env,
		Files:        files.fds(),
		FileMode:     uint32(l.cfg.FileMode.Perm()),
		Chmod:        files.owned,
		Chroot:       l.cfg.Chroot,
		StrictChroot: l.cfg.StrictChroot,
		Credential:   cred,
		RLimits:      rlims.PrepareRLimit(),
	}
}

func stepFields(e forkexec.ChildError) []zap.Field {
	fields := []zap.Field{zap.Stringer("step", e.Location)}
	if e.Index >= 0 {
		fields = append(fields, zap.Int("index", e.Index))
	}
	return append(fields, zap.Error(e.Err))
}
