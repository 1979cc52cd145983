// Package config provides the immutable run configuration of the launcher.
//
// The configuration is built once at start from compiled-in defaults, an
// optional YAML file at a fixed path and the CPU limit variable of the
// environment. It is not modified after the child has been started.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for the fixed deployment of the runner
const (
	DefaultPath = "/etc/launcher/launcher.yaml"

	DefaultStdin  = "/tmp/stdin.txt"
	DefaultStdout = "/tmp/stdout.txt"
	DefaultStderr = "/tmp/stderr.txt"

	DefaultUID = 1005
	DefaultGID = 1005

	DefaultFileMode     = 0600
	DefaultTimeLimitEnv = "TIME_LIMIT"
)

// Config is the run configuration shared by the monitor and the setup sequence
type Config struct {
	// fixed stream files for the child
	Stdin  string `yaml:"stdin"`
	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`

	// FileMode is applied to the redirected streams by fchmod
	FileMode fs.FileMode `yaml:"fileMode"`

	// Chroot confines the child into the directory if not empty
	Chroot string `yaml:"chroot"`
	// StrictChroot makes a failed chroot fatal to the child
	StrictChroot bool `yaml:"strictChroot"`

	// UID / GID the child drops to, negative value keeps the current identity
	UID int `yaml:"uid"`
	GID int `yaml:"gid"`

	// TimeLimitEnv names the environment variable carrying the CPU limit
	TimeLimitEnv string `yaml:"timeLimitEnv"`

	Log LogConfig `yaml:"log"`

	// TimeLimit is the CPU limit in seconds consumed from the environment,
	// nil if not present
	TimeLimit *uint64 `yaml:"-"`
}

// LogConfig configures the diagnostic stream
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Stdin:        DefaultStdin,
		Stdout:       DefaultStdout,
		Stderr:       DefaultStderr,
		FileMode:     DefaultFileMode,
		Chroot:       defaultChroot,
		UID:          DefaultUID,
		GID:          DefaultGID,
		TimeLimitEnv: DefaultTimeLimitEnv,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.FileMode == 0 {
		cfg.FileMode = DefaultFileMode
	}
	if cfg.TimeLimitEnv == "" {
		cfg.TimeLimitEnv = DefaultTimeLimitEnv
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// TakeTimeLimit consumes the CPU limit variable from environ. It records the
// parsed value in TimeLimit and returns environ without the variable so that
// the target program does not see it. An unparsable value installs no limit:
// TimeLimit is nil, the returned environ is still stripped and err says why
// the value was ignored.
func (c *Config) TakeTimeLimit(environ []string) ([]string, error) {
	prefix := c.TimeLimitEnv + "="
	env := make([]string, 0, len(environ))
	var (
		value string
		found bool
	)
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			// last one wins, same as getenv on a duplicated entry
			value, found = kv[len(prefix):], true
			continue
		}
		env = append(env, kv)
	}
	c.TimeLimit = nil
	if !found {
		return env, nil
	}
	sec, err := ParseTimeLimit(value)
	if err != nil {
		return env, fmt.Errorf("%s: %w", c.TimeLimitEnv, err)
	}
	c.TimeLimit = &sec
	return env, nil
}

// ParseTimeLimit parses the leading decimal digits of s as seconds, after
// optional blanks and a plus sign. The rest is ignored, so "2.5" is 2.
func ParseTimeLimit(s string) (uint64, error) {
	t := strings.TrimLeft(s, " \t\n\v\f\r")
	t = strings.TrimPrefix(t, "+")
	n := 0
	for n < len(t) && t[n] >= '0' && t[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid time limit %q: no digits", s)
	}
	sec, err := strconv.ParseUint(t[:n], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time limit %q: %w", s, err)
	}
	return sec, nil
}
