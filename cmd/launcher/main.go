// Command launcher runs a target program as an unprivileged user with its
// standard streams redirected to fixed files and an optional CPU time limit,
// then reports how it terminated.
//
// Usage: launcher <target-program> [args...]
//
// The report is written on stdout:
//
//	EXIT_CODE=<n> | SIGNAL=<n> | UNKNOWN=<n>
//	TIME_MILLISECONDS=<n>
//	MEMORY=<n>
//
// TIME_LIMIT in the environment sets the CPU time limit in seconds and is not
// passed to the target program.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/criyle/go-launcher/config"
	"github.com/criyle/go-launcher/launcher"
	"github.com/criyle/go-launcher/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return launcher.ExitFailure
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}, zapcore.Lock(os.Stderr))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return launcher.ExitFailure
	}
	defer log.Sync()

	env, err := cfg.TakeTimeLimit(os.Environ())
	if err != nil {
		log.Warn("time limit ignored", zap.Error(err))
	}

	return launcher.New(cfg, env, log, os.Stdout).Run(os.Args[1:])
}
